package cmd

import (
	"time"

	"vpctl/pkg/config"
	"vpctl/pkg/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve plans as a JSON API",
	Long: `Start an HTTP server answering read-only plan queries:

  GET /api/v1/health
  GET /api/v1/:date/info
  GET /api/v1/:date/classes
  GET /api/v1/:date/classes/:class?period=&subject=`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		logger := newLogger(cmd)
		defer logger.Sync()

		factory, err := clientFactory(cmd, logger)
		if err != nil {
			return err
		}

		if config.Mode() == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		logger.Info("starting server", zap.String("addr", addr), zap.Duration("ttl", ttl))
		return server.New(factory, ttl, logger).Run(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Duration("ttl", 5*time.Minute, "How long a fetched plan is reused")
}
