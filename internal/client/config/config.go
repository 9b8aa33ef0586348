package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/flagx"
)

// Config holds runtime settings for the CLI.
type Config struct {
	ServerURL      string
	SessionDBPath  string
	RequestTimeout time.Duration
}

var configFlags = []string{"-s", "-d", "-t", "-c", "-config", "--config"}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3001"
	c.SessionDBPath = "surveyctl.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig builds a Config from defaults, the JSON file and flags found in
// os.Args, and returns the remaining arguments as the command.
func LoadConfig() (*Config, []string) {
	return loadFrom(os.Args[1:])
}

func loadFrom(args []string) (*Config, []string) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg, flagx.Positional(args, configFlags)
}
