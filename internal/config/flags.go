package config

import (
	"flag"
	"time"
)

// parseFlags registers the configuration flags on fs and parses args.
//
// Flags:
//
//	-rules rule set file (.yaml, .yml or .json)
//	-addr server address in format [host]:[port]
//	-log-level zerolog level name
//	-read-timeout request read timeout (e.g., "5s")
//	-write-timeout response write timeout (e.g., "10s")
//	-shutdown-timeout graceful shutdown timeout (e.g., "10s")
func parseFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	var rulesPath, address, logLevel string
	var readTimeout, writeTimeout, shutdownTimeout time.Duration

	fs.StringVar(&rulesPath, "rules", "", "Rule set file path")
	fs.StringVar(&address, "addr", "", "Net address host:port")
	fs.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.DurationVar(&readTimeout, "read-timeout", 0, "Request read timeout (e.g., 5s)")
	fs.DurationVar(&writeTimeout, "write-timeout", 0, "Response write timeout (e.g., 10s)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout (e.g., 10s)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		RulesPath: rulesPath,
		Server: Server{
			Address:         address,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Log: Log{Level: logLevel},
	}, nil
}
