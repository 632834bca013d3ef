package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/kidslabs/catalog/internal/flagx"
)

// FlagNames lists every flag owned by the config loader, including the
// JSON file flags. Other flag sets (the maintenance CLI) strip these first.
var FlagNames = append([]string{"-a", "-d", "-s", "-m", "-p", "-o", "-b", "-l", "-t", "-i", "-salt"}, flagx.ConfigFileFlags...)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-m string   media base URL
//	-p string   route prefix (e.g., "/api")
//	-o string   comma separated CORS origins
//	-b string   log backend (slog|zap)
//	-l string   log level
//	-t int      shutdown timeout, seconds
//	-i int      PBKDF2 iterations
//	-salt int   password salt length
//
// Only the flags listed above are looked at, so subcommands and their own
// flags can share the command line.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], FlagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.MediaBaseURL, "m", config.MediaBaseURL, "media base URL")
	fs.StringVar(&config.RoutePrefix, "p", config.RoutePrefix, "route prefix")
	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "CORS origins (comma separated)")
	fs.StringVar(&config.LogBackend, "b", config.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")
	fs.IntVar(&config.PasswordIterations, "i", config.PasswordIterations, "PBKDF2 iterations")
	fs.IntVar(&config.PasswordSaltLength, "salt", config.PasswordSaltLength, "password salt length")

	// registered so the shared command line parses cleanly
	fs.String("c", "", "path to config file (short)")
	fs.String("config", "", "path to config file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			config.CORSOrigins = splitList(*origins)
		case "t":
			config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
		}
	})
}
