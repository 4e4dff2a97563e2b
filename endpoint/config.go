package endpoint

import (
	"fmt"
	"time"
)

//Config represents serving endpoint config
type Config struct {
	ListenAddr      string `yaml:"ListenAddr"`
	DrainSeconds    int    `yaml:"DrainSeconds"`
	ShutdownSeconds int    `yaml:"ShutdownSeconds"`
	ReadTimeoutSec  int    `yaml:"ReadTimeoutSec"`
	WriteTimeoutSec int    `yaml:"WriteTimeoutSec"`
}

//Init sets default config values
func (c *Config) Init() {
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:8080"
	}
	if c.ShutdownSeconds == 0 {
		c.ShutdownSeconds = 30
	}
	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 60
	}
	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 60
	}
}

//Validate checks if config is valid
func (c *Config) Validate() error {
	if c.DrainSeconds < 0 {
		return fmt.Errorf("invalid drain seconds: %v", c.DrainSeconds)
	}
	return nil
}

//DrainDuration returns drain wait
func (c *Config) DrainDuration() time.Duration {
	return time.Duration(c.DrainSeconds) * time.Second
}

//ShutdownDuration returns graceful shutdown bound
func (c *Config) ShutdownDuration() time.Duration {
	return time.Duration(c.ShutdownSeconds) * time.Second
}
