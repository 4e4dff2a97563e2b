package kafka

import (
	"fmt"
	"time"
)

const (
	minBytes = 1
	maxBytes = 10_000_000 // 10MB
)

//Config represents kafka source config
type Config struct {
	Brokers   []string
	Partition int
	//MaxWaitMs bounds a single fetch
	MaxWaitMs int
	MinBytes  int
	MaxBytes  int
}

//Init initialises config
func (c *Config) Init() {
	if c.MaxWaitMs == 0 {
		c.MaxWaitMs = 250
	}
	if c.MinBytes == 0 {
		c.MinBytes = minBytes
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = maxBytes
	}
}

//Validate checks if config is valid
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("brokers were empty")
	}
	if c.MinBytes > c.MaxBytes {
		return fmt.Errorf("invalid fetch size: min %v > max %v", c.MinBytes, c.MaxBytes)
	}
	return nil
}

//MaxWait returns fetch wait duration
func (c *Config) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitMs) * time.Millisecond
}
