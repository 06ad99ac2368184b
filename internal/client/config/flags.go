package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/flagx"
)

var knownFlags = []string{"-d", "-k", "-u", "-p", "-b", "-g", "-e", "-l", "-x", "-t", "-o", "-v"}

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in knownFlags are looked at; anything else on the command line is
// ignored. A malformed value panics.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (SQLite file or postgres:// URL)")
	fs.StringVar(&cfg.ProfileKey, "k", cfg.ProfileKey, "profile record key")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 access key")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 endpoint")
	fs.StringVar(&cfg.S3PublicURL, "l", cfg.S3PublicURL, "public base URL for images (empty: presigned links)")
	fs.StringVar(&cfg.ImagePrefix, "x", cfg.ImagePrefix, "object name prefix for images")
	presignTTL := fs.Int("t", int(cfg.PresignTTL.Hours()), "presigned link lifetime (in hours)")
	submitTimeout := fs.Int("o", int(cfg.SubmitTimeout.Seconds()), "submit timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PresignTTL = time.Duration(*presignTTL) * time.Hour
	cfg.SubmitTimeout = time.Duration(*submitTimeout) * time.Second
}
