// pkg/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/config"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
)

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	rootCmd := &cobra.Command{
		Use:   "image-metadata-analyzer",
		Short: "Extract consolidated metadata from a single image",
		Long:  `Extracts EXIF fields, decoded GPS coordinates, IPTC records, OCR text and its detected language from one uploaded image, consolidated into a single downloadable JSON record.`,
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")

	// Add commands
	rootCmd.AddCommand(newAnalyzeCommand(cfg))
	rootCmd.AddCommand(newServeCommand(cfg))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Error executing command: %v", err)
		os.Exit(1)
	}
}
