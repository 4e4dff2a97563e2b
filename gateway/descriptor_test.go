package gateway

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestDescriptor_URL(t *testing.T) {
	var testCases = []struct {
		description string
		descriptor  *Descriptor
		expectURL   string
		expectARN   string
		expectFn    string
	}{
		{
			description: "function name backend",
			descriptor: &Descriptor{APIID: "xf6u3cmhe7", Name: "canaal", BasePath: "proof", Stage: "test",
				Region: "us-east-2", AccountID: "123456789012", BackendRef: "echo"},
			expectURL: "https://xf6u3cmhe7.execute-api.us-east-2.amazonaws.com/test/proof",
			expectARN: "arn:aws:execute-api:us-east-2:123456789012:xf6u3cmhe7/test/*/proof",
			expectFn:  "arn:aws:lambda:us-east-2:123456789012:function:echo",
		},
		{
			description: "ARN backend, slashed base path",
			descriptor: &Descriptor{APIID: "abc", Name: "n", BasePath: "/api/", Stage: "prod",
				Region: "us-west-2", AccountID: "1234-5678-9012", BackendRef: "arn:aws:lambda:us-west-2:123456789012:function:fn"},
			expectURL: "https://abc.execute-api.us-west-2.amazonaws.com/prod/api",
			expectARN: "arn:aws:execute-api:us-west-2:123456789012:abc/prod/*/api",
			expectFn:  "arn:aws:lambda:us-west-2:123456789012:function:fn",
		},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expectURL, testCase.descriptor.URL(), testCase.description)
		assert.Equal(t, testCase.descriptor.URL(), testCase.descriptor.URL(), testCase.description)
		assert.Equal(t, testCase.expectARN, testCase.descriptor.SourceARN(), testCase.description)
		assert.Equal(t, testCase.expectFn, testCase.descriptor.FunctionARN(), testCase.description)
		assert.Equal(t, "arn:aws:apigateway:"+testCase.descriptor.Region+":lambda:path/2015-03-31/functions/"+testCase.expectFn+"/invocations",
			testCase.descriptor.IntegrationURI(), testCase.description)
		assert.Nil(t, testCase.descriptor.Validate(), testCase.description)
	}
}

func TestDescriptor_Validate(t *testing.T) {
	valid := Descriptor{Name: "n", BasePath: "p", Stage: "s", Region: "r", AccountID: "1", BackendRef: "fn"}
	var testCases = []struct {
		description string
		mutate      func(d *Descriptor)
		expectErr   bool
	}{
		{description: "valid", mutate: func(d *Descriptor) {}},
		{description: "no name", mutate: func(d *Descriptor) { d.Name = "" }, expectErr: true},
		{description: "nested base path", mutate: func(d *Descriptor) { d.BasePath = "a/b" }, expectErr: true},
		{description: "no stage", mutate: func(d *Descriptor) { d.Stage = "" }, expectErr: true},
		{description: "no account", mutate: func(d *Descriptor) { d.AccountID = "n/a" }, expectErr: true},
		{description: "no backend", mutate: func(d *Descriptor) { d.BackendRef = "" }, expectErr: true},
	}
	for _, testCase := range testCases {
		candidate := valid
		testCase.mutate(&candidate)
		err := candidate.Validate()
		assert.Equal(t, testCase.expectErr, err != nil, testCase.description)
	}
}

func TestRoute_Match(t *testing.T) {
	route := (&Descriptor{Stage: "test", BasePath: "proof", BackendRef: "echo"}).Route()
	assert.Equal(t, "/test/proof", route.Prefix())
	assert.True(t, route.Match("/test/proof"))
	assert.True(t, route.Match("/test/proof/0xabc"))
	assert.False(t, route.Match("/test/proofs"))
	assert.False(t, route.Match("/prod/proof"))
	assert.Equal(t, "/proof/0xabc", route.Resource("/test/proof/0xabc"))
}
