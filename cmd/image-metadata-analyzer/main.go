// cmd/image-metadata-analyzer/main.go
package main

import (
	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/cli"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Execute CLI
	cli.Execute()
}
