package cmd

import (
	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/spf13/cobra"
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage networking contacts",
}

var addContactCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add a contact",
	Args:    cobra.ExactArgs(1),
	Example: `  jobscout contact add "Sam Lee" --company Acme --role "Eng Manager" --email sam@acme.dev`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		email, _ := cmd.Flags().GetString("email")
		company, _ := cmd.Flags().GetString("company")
		role, _ := cmd.Flags().GetString("role")
		notes, _ := cmd.Flags().GetString("notes")

		c, err := applicator.AddContact(cmd.Context(), a.Store, models.Contact{
			Name:    args[0],
			Email:   email,
			Company: company,
			Role:    role,
			Notes:   notes,
		})
		if err != nil {
			return err
		}
		cmd.Printf("✓ Contact added: %s (ID: %s)\n", c.Name, c.ID)
		return nil
	},
}

var listContactsCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}
		if len(snap.Contacts) == 0 {
			cmd.Println("No contacts yet. Add one with 'jobscout contact add <name>'")
			return nil
		}

		cmd.Println(titleStyle.Render("Contacts"))
		for _, c := range snap.Contacts {
			cmd.Printf("\n%s\n", labelStyle.Render(c.Name))
			if c.Role != "" || c.Company != "" {
				cmd.Printf("   %s @ %s\n", c.Role, c.Company)
			}
			printField(cmd, "   Email:", c.Email)
			printField(cmd, "   Notes:", c.Notes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.AddCommand(addContactCmd)
	contactCmd.AddCommand(listContactsCmd)

	addContactCmd.Flags().String("email", "", "Email address")
	addContactCmd.Flags().String("company", "", "Company")
	addContactCmd.Flags().String("role", "", "Role")
	addContactCmd.Flags().String("notes", "", "Notes")
}
