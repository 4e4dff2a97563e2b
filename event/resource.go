package event

import (
	"fmt"
	"github.com/viant/scy"
	"strings"
)

const (
	ResourceTypeTopic = "topic"
	ResourceTypeQueue = "queue"
)

//Resource represents event destination
type Resource struct {
	Name        string        `yaml:"Name" json:",omitempty"`
	Region      string        `yaml:"Region" json:",omitempty"`
	URL         string        `yaml:"URL" json:",omitempty"`
	Type        string        `description:"resource type: topic, queue" yaml:"Type" json:",omitempty"`
	Credentials *scy.Resource `yaml:"Credentials" json:",omitempty"`
}

//Init derives name from URL or ARN
func (r *Resource) Init() error {
	if r == nil {
		return fmt.Errorf("resource was empty")
	}
	if r.Name == "" && r.URL != "" {
		r.Name = r.URL
		index := strings.LastIndex(r.URL, "/")
		if index == -1 {
			index = strings.LastIndex(r.URL, ":")
		}
		if index != -1 {
			r.Name = r.URL[index+1:]
		}
	}
	return nil
}

//Validate checks if resource is valid
func (r *Resource) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("resource name was empty")
	}
	switch r.Type {
	case ResourceTypeTopic, ResourceTypeQueue:
	default:
		return fmt.Errorf("invalid resource type: %v, expected: %v", r.Type, []string{ResourceTypeTopic, ResourceTypeQueue})
	}
	return nil
}

//EncodedResource represents resource encoded as type|name[|region[|secretURL[|secretKey]]]
type EncodedResource string

//Decode decodes resource
func (e EncodedResource) Decode() (*Resource, error) {
	var parts []string
	if strings.Contains(string(e), "|") {
		parts = strings.Split(string(e), "|")
	} else {
		parts = strings.Split(string(e), ";")
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("failed to decode event resource: invalid format: %v, expected: type|name[|region[|secretURL[|secretKey]]]", e)
	}
	ret := &Resource{Type: parts[0], Name: parts[1]}
	if len(parts) > 2 {
		ret.Region = parts[2]
	}
	if len(parts) > 3 {
		ret.Credentials = &scy.Resource{URL: parts[3]}
		if len(parts) > 4 {
			ret.Credentials.Key = parts[4]
		}
	}
	return ret, ret.Validate()
}
