package event

import (
	"github.com/stretchr/testify/assert"
	"github.com/viant/scy"
	"testing"
)

func TestEncodedResource_Decode(t *testing.T) {
	var testCases = []struct {
		description string
		encoded     string
		expected    *Resource
		expectErr   bool
	}{
		{
			description: "topic with credentials",
			encoded:     "topic|gateway-events|us-east-2|~/.secret/aws.json",
			expected: &Resource{
				Type:        ResourceTypeTopic,
				Name:        "gateway-events",
				Region:      "us-east-2",
				Credentials: &scy.Resource{URL: "~/.secret/aws.json"},
			},
		},
		{
			description: "queue, semicolon separated",
			encoded:     "queue;gateway-events",
			expected:    &Resource{Type: ResourceTypeQueue, Name: "gateway-events"},
		},
		{
			description: "invalid type",
			encoded:     "bucket|x",
			expectErr:   true,
		},
		{
			description: "too short",
			encoded:     "topic",
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		actual, err := EncodedResource(testCase.encoded).Decode()
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expected, actual, testCase.description)
	}
}

func TestResource_Init(t *testing.T) {
	resource := &Resource{URL: "arn:aws:sns:us-east-2:123456789012:gateway-events", Type: ResourceTypeTopic}
	assert.Nil(t, resource.Init())
	assert.Equal(t, "gateway-events", resource.Name)
	resource = &Resource{URL: "https://sqs.us-east-2.amazonaws.com/123456789012/gateway-queue", Type: ResourceTypeQueue}
	assert.Nil(t, resource.Init())
	assert.Equal(t, "gateway-queue", resource.Name)
}
