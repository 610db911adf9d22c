// The server command hosts the forgeci HTTP API: it accepts repository
// references, clones them into a staging directory, runs their
// pipeline descriptors, and serves run status and transcripts.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"forgeci/internal/logging"
	"forgeci/internal/server"
	"forgeci/internal/storage"
	"forgeci/internal/workspace"
)

func main() {
	listen := pflag.String("listen", "", "listen address (defaults to :$PORT, or :8080)")
	stagingDir := pflag.String("staging-dir", "./staging", "directory for cloned workspaces")
	dataDir := pflag.String("data-dir", "./transcripts", "directory for persisted transcripts")
	descriptor := pflag.String("descriptor", workspace.DefaultDescriptorPath, "relative path of the pipeline descriptor inside a checkout")
	runTimeout := pflag.Duration("run-timeout", 30*time.Minute, "maximum duration of one pipeline run (0 disables)")
	logLevel := pflag.String("log-level", "info", "log level: debug, info, warn, error")
	pflag.Parse()

	if *listen == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		*listen = ":" + port
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(*logLevel),
		Service: "server",
	})

	runner := server.NewWorkspaceRunner(*stagingDir, *descriptor, logger)
	store := storage.NewTranscriptStore(*dataDir)

	srv, err := server.New(server.Config{
		Addr:           *listen,
		StagingRoot:    *stagingDir,
		DataDir:        *dataDir,
		DescriptorPath: *descriptor,
		RunTimeout:     *runTimeout,
	}, runner, store, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              *listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Serve until SIGINT/SIGTERM, then drain in-flight requests.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("forgeci server listening", "addr", *listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
}
