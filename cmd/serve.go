package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/khrees2412/jobscout/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search and pipeline API over HTTP",
	Long: `Starts the HTTP API on server.addr (default 127.0.0.1:8080):

  GET  /v1/health
  POST /v1/jobs/search
  POST /v1/jobs/promote
  POST /v1/resume/parse
  POST /v1/resume/custom-fields
  GET  /v1/stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.Config.Server.Addr
		}

		if !a.Config.Log.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		router := server.NewRouter(server.Deps{
			Search: a.Search,
			Store:  a.Store,
			Config: a.Config,
			Logger: a.Logger.Named("http"),
		})
		return server.Run(cmd.Context(), addr, router, a.Logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address, overrides server.addr")
}
