package apigw

import (
	"fmt"
)

const (
	//AnyMethod accepts every HTTP verb
	AnyMethod = "ANY"
	//AuthorizationNone no built-in authorization at the gateway layer
	AuthorizationNone = "NONE"
	//IntegrationTypeProxy proxy-all integration
	IntegrationTypeProxy = "AWS_PROXY"
	//IntegrationHTTPMethod method used by the gateway to invoke lambda
	IntegrationHTTPMethod = "POST"
	//InvokeAction lambda action granted to the gateway
	InvokeAction = "lambda:InvokeFunction"
	//Principal gateway service principal
	Principal = "apigateway.amazonaws.com"
	rootPath  = "/"
)

//Config represents orchestrator config
type Config struct {
	Region          string `yaml:"Region"`
	Endpoint        string `yaml:"Endpoint"`
	StatementPrefix string `yaml:"StatementPrefix"` // invoke permission statement id prefix, api id is appended
	Rollback        bool   `yaml:"Rollback"`        // compensate completed steps on failure
}

//Init sets default config values
func (c *Config) Init() {
	if c.StatementPrefix == "" {
		c.StatementPrefix = "gateway-invoke"
	}
}

//Validate checks if config is valid
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region was empty")
	}
	return nil
}

//StatementID returns invoke permission statement id for the api
func (c *Config) StatementID(apiID string) string {
	return c.StatementPrefix + "-" + apiID
}
