package app

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/lambdagate/consumer"
	"github.com/viant/lambdagate/endpoint"
	"github.com/viant/lambdagate/event"
	"github.com/viant/lambdagate/gateway"
	"github.com/viant/lambdagate/gateway/aws/apigw"
	"github.com/viant/lambdagate/stream/aws/kinesis"
	"github.com/viant/lambdagate/stream/kafka"
	"github.com/viant/scy"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
)

type (
	//Config represents application config
	Config struct {
		Region    string
		AccountID string
		//Secret holds encrypted AWS credentials, default credential chain is used when empty
		Secret   *scy.Resource
		Gateway  *apigw.Config
		Consumer *consumer.Config
		Kinesis  *kinesis.Config
		//Kafka selects kafka source instead of kinesis when set
		Kafka    *kafka.Config
		ProofURL string
		Endpoint *endpoint.Config
		Events   *event.Resource
		Proxy    *Proxy
	}

	//Proxy represents local proxy-all emulator config
	Proxy struct {
		Port   int
		Routes []*gateway.Route
	}
)

//Init sets default config values
func (c *Config) Init() error {
	if c.Gateway == nil {
		c.Gateway = &apigw.Config{}
	}
	if c.Gateway.Region == "" {
		c.Gateway.Region = c.Region
	}
	c.Gateway.Init()
	if c.Consumer == nil {
		c.Consumer = &consumer.Config{}
	}
	c.Consumer.Init()
	if c.Kafka == nil {
		if c.Kinesis == nil {
			c.Kinesis = &kinesis.Config{}
		}
		if c.Kinesis.Region == "" {
			c.Kinesis.Region = c.Region
		}
		c.Kinesis.Init()
	} else {
		c.Kafka.Init()
	}
	if c.Endpoint == nil {
		c.Endpoint = &endpoint.Config{}
	}
	c.Endpoint.Init()
	if c.Proxy == nil {
		c.Proxy = &Proxy{}
	}
	if c.Proxy.Port == 0 {
		c.Proxy.Port = 8081
	}
	if c.Events != nil {
		if c.Events.Region == "" {
			c.Events.Region = c.Region
		}
		return c.Events.Init()
	}
	return nil
}

//Validate checks if provisioning settings are valid
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region was empty")
	}
	if err := c.Gateway.Validate(); err != nil {
		return errors.Wrap(err, "invalid gateway config")
	}
	if c.Events != nil {
		if err := c.Events.Validate(); err != nil {
			return errors.Wrap(err, "invalid events config")
		}
	}
	return nil
}

//ValidateServing checks if serving settings are valid
func (c *Config) ValidateServing() error {
	if c.ProofURL == "" {
		return fmt.Errorf("proofURL was empty")
	}
	if err := c.Consumer.Validate(); err != nil {
		return errors.Wrap(err, "invalid consumer config")
	}
	if c.Kafka != nil {
		if err := c.Kafka.Validate(); err != nil {
			return errors.Wrap(err, "invalid kafka config")
		}
	} else if err := c.Kinesis.Validate(); err != nil {
		return errors.Wrap(err, "invalid kinesis config")
	}
	return c.Endpoint.Validate()
}

//NewConfigFromURL loads config from URL
func NewConfigFromURL(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download config: %v", URL)
	}
	any := map[string]interface{}{}
	if err = yaml.Unmarshal(data, &any); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config: %v", URL)
	}
	cfg := &Config{}
	if err = toolbox.DefaultConverter.AssignConverted(cfg, any); err != nil {
		return nil, errors.Wrapf(err, "failed to assign config: %v", URL)
	}
	return cfg, cfg.Init()
}
