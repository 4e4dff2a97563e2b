package kinesis

import "fmt"

//Config represents kinesis source config
type Config struct {
	Region string
	//ShardID pins the shard to read; if empty the first listed shard is used
	ShardID string
	//Limit caps records returned by a single read
	Limit int32
}

//Init initialises config
func (c *Config) Init() {
	if c.Limit == 0 {
		c.Limit = 100
	}
}

//Validate checks if config is valid
func (c *Config) Validate() error {
	if c.Limit < 0 || c.Limit > 10000 {
		return fmt.Errorf("invalid limit: %v, expected 1..10000", c.Limit)
	}
	return nil
}
