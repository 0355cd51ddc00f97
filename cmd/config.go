package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/khrees2412/jobscout/internal/app"
	"github.com/khrees2412/jobscout/internal/config"
	"github.com/spf13/cobra"
)

// secretKeys are shown as configured or not, never in full.
var secretKeys = map[string]bool{
	"sources.adzuna.app_id":  true,
	"sources.adzuna.app_key": true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		cmd.Println(titleStyle.Render("Configuration"))
		cmd.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		cmd.Printf("%s %s\n\n", labelStyle.Render("Database:"), a.Config.Database.Path)

		keys := config.Keys()
		sort.Strings(keys)
		for _, key := range keys {
			value := config.Get(key)
			if secretKeys[key] {
				if value != "" {
					value = "✓ Configured"
				} else {
					value = "✗ Not configured"
				}
			}
			cmd.Printf("%s %s\n", labelStyle.Render(key+":"), value)
		}
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a configuration value",
	Args:  cobra.ExactArgs(2),
	Example: `  jobscout config set ranking.target 20
  jobscout config set sources.enabled remotive,remoteok
  jobscout config set sources.adzuna.app_id YOUR_ID
  jobscout config set watch.schedule "@every 6h"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := strings.ToLower(args[0]), args[1]

		// Validate key
		known := false
		for _, k := range config.Keys() {
			if k == key {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: unknown key %q, see 'jobscout config show'", app.ErrInvalidArgument, key)
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}

		// Reload to catch values that no longer decode
		if _, err := config.Load(); err != nil {
			return err
		}
		cmd.Printf("✓ Configuration updated: %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
}
