package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/gophprofile/internal/flagx"
	"github.com/dmitrijs2005/gophprofile/internal/timex"
)

// FileConfig is the on-disk shape of the config. Durations use
// timex.Duration, so "168h" and integer nanoseconds are both accepted.
// Empty or zero values leave the current setting untouched.
type FileConfig struct {
	DatabaseDSN    string         `json:"database_dsn" yaml:"database_dsn"`
	ProfileKey     string         `json:"profile_key" yaml:"profile_key"`
	S3RootUser     string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicURL    string         `json:"s3_public_url" yaml:"s3_public_url"`
	ImagePrefix    string         `json:"image_prefix" yaml:"image_prefix"`
	PresignTTL     timex.Duration `json:"presign_ttl" yaml:"presign_ttl"`
	SubmitTimeout  timex.Duration `json:"submit_timeout" yaml:"submit_timeout"`
	ConnectTimeout timex.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON. Read and decode
// errors panic, like flag errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.ProfileKey, fc.ProfileKey)
	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.S3PublicURL, fc.S3PublicURL)
	setString(&cfg.ImagePrefix, fc.ImagePrefix)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.PresignTTL.Duration > 0 {
		cfg.PresignTTL = fc.PresignTTL.Duration
	}
	if fc.SubmitTimeout.Duration > 0 {
		cfg.SubmitTimeout = fc.SubmitTimeout.Duration
	}
	if fc.ConnectTimeout.Duration > 0 {
		cfg.ConnectTimeout = fc.ConnectTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
