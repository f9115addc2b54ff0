// pkg/cli/serve.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/config"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/export"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/langdetect"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/ocr"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/pipeline"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/server"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/s3client"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload and analysis server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "Address to listen on")
	cmd.Flags().StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Port to listen on")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger.SetLevel(cfg.Log.Level)

	adapter := ocr.New(cfg.OCR)
	pipe := pipeline.New(adapter, langdetect.New())
	logger.Info("OCR engine available: %v", pipe.OCRAvailable())

	var s3Exporter *export.S3Exporter
	if cfg.S3.Enabled {
		client, err := s3client.New(ctx, s3client.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		s3Exporter = export.NewS3Exporter(client, cfg.S3.PresignExpiry)
	}

	return server.New(cfg, pipe, s3Exporter).Run(ctx)
}
