package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/cardhouse/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a table to remote renderers over a websocket",
	Long: `Serve hosts one table. A renderer connects to /ws, streams pointer, key
and wheel events, and receives the full table state whenever it changes.

Routes:
  GET  /healthz
  GET  /api/table
  GET  /api/presets
  GET  /api/faces/{suit}/{rank}.{png|webp|tga}
  POST /api/save
  POST /api/load
  GET  /ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ListenAddr = addr
		}

		log, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer log.Sync()

		kv, err := openStore(cfg)
		if err != nil {
			return err
		}
		seed, _ := cmd.Flags().GetInt64("seed")
		opts, err := sessionOptions(cfg, kv, log.Named("session"), seed)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{Addr: cfg.ListenAddr, TickRate: cfg.TickRate}, opts, log)
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Error("server stopped", zap.Error(err))
			return err
		}
		log.Info("shut down")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	serveCmd.Flags().Int64("seed", 0, "seed for dealing card faces")
}
