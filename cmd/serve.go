package cmd

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		gin.SetMode(gin.ReleaseMode)
		opts := api.Options{
			RateLimit:       cfg.Server.RateLimit,
			Burst:           cfg.Server.Burst,
			CORSOrigins:     cfg.Server.CORSOrigins,
			ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout),
			Gatherer:        e.registry,
			Log:             logger.Named("api"),
		}
		if e.store != nil {
			opts.Ping = e.store.Ping
		}
		return api.New(e.orch, e.videos, opts).ListenAndServe(cmd.Context(), cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
