package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/utils"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/common"
)

// Config represents the application configuration
type Config struct {
	Log    LogConfig
	OCR    OCRConfig
	Detect DetectConfig
	Server ServerConfig
	Export ExportConfig
	S3     S3Config
}

// LogConfig controls logging behavior
type LogConfig struct {
	Level string
}

// OCRConfig controls the text recognition engine
type OCRConfig struct {
	TesseractPath string
	Languages     []string
	Timeout       time.Duration
	MaxConcurrent int
}

// DetectConfig sets the default state of the per-request toggles when
// the caller does not supply them.
type DetectConfig struct {
	OCR      bool
	Language bool
}

// ServerConfig controls the HTTP server
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSize   int64
}

// ExportConfig controls the local metadata export
type ExportConfig struct {
	Dir    string
	Pretty bool
}

// S3Config controls the optional S3 export destination
type S3Config struct {
	Enabled       bool
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Prefix        string
	PresignExpiry time.Duration
}

// Load builds the configuration from defaults and IMA_-prefixed
// environment variables. CLI flags may override fields afterwards.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("ocr.tesseract_path", "")
	v.SetDefault("ocr.languages", []string{})
	v.SetDefault("ocr.timeout", 30*time.Second)
	v.SetDefault("ocr.max_concurrent", 2)
	v.SetDefault("detect.ocr", true)
	v.SetDefault("detect.language", true)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_upload_size", 10*1024*1024) // 10MB
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.pretty", true)
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.presign_expiry", 24*time.Hour)

	v.SetEnvPrefix("IMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		OCR: OCRConfig{
			TesseractPath: v.GetString("ocr.tesseract_path"),
			Languages:     v.GetStringSlice("ocr.languages"),
			Timeout:       v.GetDuration("ocr.timeout"),
			MaxConcurrent: v.GetInt("ocr.max_concurrent"),
		},
		Detect: DetectConfig{
			OCR:      v.GetBool("detect.ocr"),
			Language: v.GetBool("detect.language"),
		},
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetString("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			MaxUploadSize:   v.GetInt64("server.max_upload_size"),
		},
		Export: ExportConfig{
			Dir:    v.GetString("export.dir"),
			Pretty: v.GetBool("export.pretty"),
		},
		S3: S3Config{
			Enabled:       v.GetBool("s3.enabled"),
			Endpoint:      v.GetString("s3.endpoint"),
			Region:        v.GetString("s3.region"),
			Bucket:        v.GetString("s3.bucket"),
			AccessKey:     v.GetString("s3.access_key"),
			SecretKey:     v.GetString("s3.secret_key"),
			UseSSL:        v.GetBool("s3.use_ssl"),
			Prefix:        v.GetString("s3.prefix"),
			PresignExpiry: v.GetDuration("s3.presign_expiry"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.OCR.MaxConcurrent < 1 {
		c.OCR.MaxConcurrent = 1
	}
	if c.OCR.Timeout <= 0 {
		c.OCR.Timeout = 30 * time.Second
	}
	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			return common.NewConfigError("S3 export enabled but s3.endpoint is not set")
		}
		if c.S3.Bucket == "" {
			return common.NewConfigError("S3 export enabled but s3.bucket is not set")
		}
		if err := utils.ValidateS3BucketName(c.S3.Bucket); err != nil {
			return common.NewConfigError("invalid s3.bucket: " + err.Error())
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return common.NewConfigError("S3 export enabled but credentials are not set")
		}
	}
	return nil
}
