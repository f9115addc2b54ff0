// pkg/cli/analyze.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/config"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/export"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/imagefile"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/langdetect"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/ocr"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/pipeline"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/utils"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/s3client"
)

func newAnalyzeCommand(cfg *config.Config) *cobra.Command {
	var (
		output    string
		exportDir string
		toS3      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [flags] <image>",
		Short: "Extract metadata from one image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cfg, args[0], output, exportDir, toS3)
		},
	}

	cmd.Flags().BoolVar(&cfg.Detect.OCR, "ocr", cfg.Detect.OCR, "Run text recognition over the image")
	cmd.Flags().BoolVar(&cfg.Detect.Language, "language", cfg.Detect.Language, "Detect the language of recognized text (needs --ocr)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Write the record to a file, or - for stdout")
	cmd.Flags().BoolVar(&cfg.Export.Pretty, "pretty", cfg.Export.Pretty, "Indent the serialized record")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "Also write the <name>_metadata.json export into this directory")
	cmd.Flags().BoolVar(&toS3, "s3", false, "Also upload the export to the configured S3 bucket")

	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, path, output, exportDir string, toS3 bool) error {
	logger.SetLevel(cfg.Log.Level)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	img, err := imagefile.Load(path, data)
	if err != nil {
		return err
	}

	adapter := ocr.New(cfg.OCR)
	if cfg.Detect.OCR && !adapter.Available() {
		logger.Warn("OCR requested but no engine is installed; the text section will be empty")
	}
	pipe := pipeline.New(adapter, langdetect.New())

	rec := pipe.Analyze(ctx, img, pipeline.Options{
		OCR:      cfg.Detect.OCR,
		Language: cfg.Detect.Language,
	})

	if rec.GPS != nil {
		logger.Info("GPS position: %s", utils.GoogleMapsURL(rec.GPS.Latitude, rec.GPS.Longitude))
	}

	var body []byte
	if cfg.Export.Pretty {
		body, err = rec.MarshalIndent()
	} else {
		body, err = rec.Marshal()
	}
	if err != nil {
		return err
	}

	if output == "-" || output == "" {
		fmt.Println(string(body))
	} else if err := os.WriteFile(output, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	if exportDir != "" {
		exporter := export.NewFileExporter(exportDir, cfg.Export.Pretty)
		if _, err := exporter.Export(rec, path); err != nil {
			return err
		}
	}

	if toS3 {
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
		url, err := export.NewS3Exporter(client, cfg.S3.PresignExpiry).Export(ctx, rec, path)
		if err != nil {
			return err
		}
		logger.Info("Export available at %s", url)
	}

	return nil
}
