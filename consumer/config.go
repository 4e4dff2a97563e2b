package consumer

import (
	"fmt"
	"time"
)

//Config represents consumer config
type Config struct {
	StreamName       string  `yaml:"StreamName"`
	InitialBackoffMs int     `yaml:"InitialBackoffMs"`
	MaxBackoffMs     int     `yaml:"MaxBackoffMs"`
	Multiplier       float64 `yaml:"Multiplier"`
	MaxWaitMs        int     `yaml:"MaxWaitMs"`     // bounds a whole Consume call
	SharedSession    bool    `yaml:"SharedSession"` // all requests share one cursor
}

//Init sets default config values
func (c *Config) Init() {
	if c.InitialBackoffMs == 0 {
		c.InitialBackoffMs = 100
	}
	if c.MaxBackoffMs == 0 {
		c.MaxBackoffMs = 2000
	}
	if c.Multiplier == 0 {
		c.Multiplier = 2
	}
	if c.MaxWaitMs == 0 {
		c.MaxWaitMs = 30000
	}
}

//Validate checks if config is valid
func (c *Config) Validate() error {
	if c.StreamName == "" {
		return fmt.Errorf("stream name was empty")
	}
	if c.Multiplier <= 1 {
		return fmt.Errorf("invalid multiplier: %v, backoff has to grow", c.Multiplier)
	}
	if c.MaxBackoffMs < c.InitialBackoffMs {
		return fmt.Errorf("max backoff %vms less than initial %vms", c.MaxBackoffMs, c.InitialBackoffMs)
	}
	return nil
}

//InitialBackoff returns first poll delay
func (c *Config) InitialBackoff() time.Duration {
	return time.Duration(c.InitialBackoffMs) * time.Millisecond
}

//MaxBackoff returns poll delay cap
func (c *Config) MaxBackoff() time.Duration {
	return time.Duration(c.MaxBackoffMs) * time.Millisecond
}

//MaxWait returns Consume time bound
func (c *Config) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitMs) * time.Millisecond
}
