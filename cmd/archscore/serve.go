package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/library"
	"github.com/alfredjeanlab/archscore/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the archscore HTTP and gRPC servers",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// Override PersistentPreRunE so we don't build a client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("http-addr"); addr != "" {
			cfg.HTTPAddr = addr
		}

		lib, err := newLibrary(cmd.Context())
		if err != nil {
			return err
		}
		defer library.CloseSource(lib.Source())

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = events.NoopPublisher{}
			logger.Info("events disabled (ARCHSCORE_NATS_URL not set)")
		}
		if logEvents, _ := cmd.Flags().GetBool("log-events"); logEvents {
			publisher = events.MultiPublisher{publisher, events.LogPublisher{Logger: logger}}
		}

		srv := server.NewScoreServer(lib, publisher, server.WithLogger(logger))

		// Load the library in the background, retrying until it succeeds;
		// /v1/health reports "loading" until then.
		loadCtx, stopLoad := context.WithCancel(context.Background())
		defer stopLoad()
		go func() {
			if err := srv.LoadLibraryRetry(loadCtx, time.Second, 30*time.Second); err != nil {
				logger.Info("library load abandoned", "source", lib.Source().String(), "err", err)
			}
		}()

		var grpcServer *grpc.Server
		if cfg.GRPCAddr != "" {
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				publisher.Close()
				return err
			}
			grpcServer = srv.NewGRPCServer(cfg.AuthToken)
			go func() {
				logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
				if err := grpcServer.Serve(lis); err != nil {
					logger.Error("gRPC server error", "err", err)
				}
			}()
		}

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           srv.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		logger.Info("archscore server started",
			"http_addr", cfg.HTTPAddr,
			"grpc_addr", cfg.GRPCAddr,
			"library", lib.Source().String(),
			"auth", cfg.AuthToken != "",
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		stopLoad()
		srv.Shutdown()
		if grpcServer != nil {
			grpcServer.GracefulStop()
			logger.Info("gRPC server stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().Bool("log-events", false, "also log every published event")
	serveCmd.Flags().String("http-addr", "", "HTTP listen address (default $ARCHSCORE_HTTP_ADDR or :8080)")
}
