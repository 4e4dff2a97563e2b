package gateway

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	//ExecuteAPIDomain front door domain suffix (prefixed by region)
	ExecuteAPIDomain = "amazonaws.com"
	lambdaAPIVersion = "2015-03-31"
)

var nonDigit = regexp.MustCompile(`[^\d]`)

//Descriptor identifies a provisioned front door
type Descriptor struct {
	APIID      string `json:",omitempty" yaml:"APIID"`
	Name       string `json:",omitempty" yaml:"Name"`
	BasePath   string `json:",omitempty" yaml:"BasePath"`
	Stage      string `json:",omitempty" yaml:"Stage"`
	Region     string `json:",omitempty" yaml:"Region"`
	AccountID  string `json:",omitempty" yaml:"AccountID"`
	BackendRef string `json:",omitempty" yaml:"BackendRef"`
}

//URL returns externally reachable front door URL
func (d *Descriptor) URL() string {
	return fmt.Sprintf("https://%s.execute-api.%s.%s/%s/%s", d.APIID, d.Region, ExecuteAPIDomain, d.Stage, d.basePath())
}

//SourceARN returns execute-api ARN of the deployed route, any method
func (d *Descriptor) SourceARN() string {
	return fmt.Sprintf("arn:aws:execute-api:%s:%s:%s/%s/*/%s", d.Region, d.account(), d.APIID, d.Stage, d.basePath())
}

//FunctionARN returns backend function ARN, bare function names are expanded
func (d *Descriptor) FunctionARN() string {
	if strings.HasPrefix(d.BackendRef, "arn:") {
		return d.BackendRef
	}
	return "arn:aws:lambda:" + d.Region + ":" + d.account() + ":function:" + d.BackendRef
}

//IntegrationURI returns proxy integration URI targeting backend function
func (d *Descriptor) IntegrationURI() string {
	return fmt.Sprintf("arn:aws:apigateway:%s:lambda:path/%s/functions/%s/invocations", d.Region, lambdaAPIVersion, d.FunctionARN())
}

//Route returns route served by the descriptor
func (d *Descriptor) Route() *Route {
	return &Route{Stage: d.Stage, BasePath: d.basePath(), FunctionName: d.BackendRef}
}

//Validate checks if descriptor can be provisioned
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("api name was empty")
	}
	if d.basePath() == "" {
		return fmt.Errorf("base path was empty")
	}
	if strings.Contains(d.basePath(), "/") {
		return fmt.Errorf("invalid base path: %v, expected single path segment", d.BasePath)
	}
	if d.Stage == "" {
		return fmt.Errorf("stage was empty")
	}
	if d.Region == "" {
		return fmt.Errorf("region was empty")
	}
	if d.account() == "" {
		return fmt.Errorf("account ID was empty")
	}
	if d.BackendRef == "" {
		return fmt.Errorf("backend ref was empty")
	}
	return nil
}

func (d *Descriptor) basePath() string {
	return strings.Trim(d.BasePath, "/")
}

func (d *Descriptor) account() string {
	return nonDigit.ReplaceAllString(d.AccountID, "")
}
