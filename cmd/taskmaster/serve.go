package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amonks/taskmaster/internal/clock"
	"github.com/amonks/taskmaster/internal/config"
	"github.com/amonks/taskmaster/internal/paths"
	"github.com/amonks/taskmaster/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the booking API and tracking page",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	serveAddr    string
	serveNoWatch bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload configuration when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}
	opts, err := cfg.BookingOptions(clock.Real{})
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	logger := log.New(cmd.ErrOrStderr(), "taskmaster: ", log.LstdFlags)
	server := web.NewServer(web.ServerOptions{Booking: opts, Logger: logger})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !serveNoWatch {
		watcher, err := config.Watch(cwd)
		if err != nil {
			return err
		}
		defer watcher.Close()
		go watchConfig(ctx, watcher, server, logger)
	}

	return server.Serve(ctx, addr)
}

func watchConfig(ctx context.Context, watcher *config.Watcher, server *web.Server, logger *log.Logger) {
	err := watcher.Run(ctx, func(cfg *config.Config, err error) {
		if err != nil {
			logger.Printf("config reload: %v", err)
			return
		}
		opts, err := cfg.BookingOptions(clock.Real{})
		if err != nil {
			logger.Printf("config reload: %v", err)
			return
		}
		server.Reconfigure(opts)
		logger.Printf("config reloaded")
	})
	if err != nil && ctx.Err() == nil {
		logger.Printf("config watcher stopped: %v", err)
	}
}
