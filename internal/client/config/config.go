package config

import "time"

// Config holds runtime settings for the profile CLI.
//
// Units: PresignTTL, SubmitTimeout and ConnectTimeout are time.Duration.
type Config struct {
	DatabaseDSN string
	ProfileKey  string

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3PublicURL    string
	ImagePrefix    string

	PresignTTL     time.Duration
	SubmitTimeout  time.Duration
	ConnectTimeout time.Duration

	LogLevel string
}

// LoadDefaults populates c with defaults suitable for a local minio and a
// SQLite file in the working directory.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "profile.db"
	c.ProfileKey = "Y5JZiGK9O3se7JAMpbLP"

	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "profiles"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3PublicURL = ""
	c.ImagePrefix = "images/"

	c.PresignTTL = 7 * 24 * time.Hour
	c.SubmitTimeout = 60 * time.Second
	c.ConnectTimeout = 20 * time.Second

	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
