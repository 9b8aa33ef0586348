package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Other arguments are filtered out first, so commands and their arguments
// never reach the parser.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the survey API")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "local session database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
