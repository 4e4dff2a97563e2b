package apigw

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/viant/lambdagate/event"
	"github.com/viant/lambdagate/event/mem"
	"github.com/viant/lambdagate/shared"
	"io"
	"log/slog"
	"testing"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var pipeline = []string{
	StepCreateRestAPI,
	StepGetResources,
	StepCreateResource,
	StepPutMethod,
	StepPutIntegration,
	StepCreateDeployment,
	StepAddPermission,
}

func newRequest() *CreateRequest {
	return &CreateRequest{Name: "canaal", BasePath: "canaal-api", Stage: "test", AccountID: "123456789012", BackendRef: "echo"}
}

func distinct(calls []string) []string {
	var result []string
	for _, call := range calls {
		if len(result) > 0 && result[len(result)-1] == call {
			continue
		}
		result = append(result, call)
	}
	return result
}

func TestService_Create(t *testing.T) {
	plane := newControlPlane(nil)
	publisher := mem.New()
	srv := New(&Config{Region: "us-east-2"}, plane.gateway(), plane.lambda(), WithLogger(discard), WithPublisher(publisher))
	descriptor, URL, err := srv.Create(context.Background(), newRequest())
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, pipeline, distinct(plane.calls))
	assert.Equal(t, "https://"+descriptor.APIID+".execute-api.us-east-2.amazonaws.com/test/canaal-api", URL)
	assert.Equal(t, descriptor.URL(), URL)

	assert.Equal(t, AnyMethod, *plane.method.HttpMethod)
	assert.Equal(t, AuthorizationNone, *plane.method.AuthorizationType)
	assert.Equal(t, IntegrationTypeProxy, *plane.integration.Type)
	assert.Equal(t, "POST", *plane.integration.IntegrationHttpMethod)
	assert.Equal(t, "arn:aws:apigateway:us-east-2:lambda:path/2015-03-31/functions/arn:aws:lambda:us-east-2:123456789012:function:echo/invocations", *plane.integration.Uri)
	assert.Equal(t, "test", *plane.deployment.StageName)

	permission, ok := plane.permissions["gateway-invoke-"+descriptor.APIID]
	if assert.True(t, ok) {
		assert.Equal(t, InvokeAction, *permission.Action)
		assert.Equal(t, Principal, *permission.Principal)
		assert.Equal(t, "arn:aws:execute-api:us-east-2:123456789012:"+descriptor.APIID+"/test/*/canaal-api", *permission.SourceArn)
	}
	events := publisher.Events()
	if assert.Len(t, events, 1) {
		assert.Equal(t, event.Provisioned, events[0].Kind)
		assert.Equal(t, URL, events[0].URL)
	}
}

func TestService_Create_StepFailure(t *testing.T) {
	for k := 2; k <= len(pipeline); k++ {
		description := fmt.Sprintf("step %v: %v fails", k, pipeline[k-1])
		plane := newControlPlane(map[string]error{pipeline[k-1]: fmt.Errorf("remote failure")})
		srv := New(&Config{Region: "us-east-2"}, plane.gateway(), plane.lambda(), WithLogger(discard))
		descriptor, URL, err := srv.Create(context.Background(), newRequest())
		assert.Nil(t, descriptor, description)
		assert.Equal(t, "", URL, description)
		if !assert.NotNil(t, err, description) {
			continue
		}
		domainErr, ok := err.(*shared.Error)
		if !assert.True(t, ok, description) {
			continue
		}
		assert.Equal(t, shared.RemoteOperationFailed, domainErr.Kind, description)
		assert.Equal(t, k, domainErr.StepIndex, description)
		assert.Equal(t, pipeline[k-1], domainErr.Step, description)
		assert.Equal(t, pipeline[:k], distinct(plane.calls), description)
		assert.Len(t, plane.apis, 1, description+": completed steps are left in place")
	}
}

func TestService_Create_Rollback(t *testing.T) {
	var testCases = []struct {
		description  string
		failures     map[string]error
		cancelAt     string
		expectCalls  []string
		expectStep   int
		expectAPIs   int
		expectErrors int
	}{
		{
			description: "deployment failure compensates api",
			failures:    map[string]error{StepCreateDeployment: fmt.Errorf("limit exceeded")},
			expectCalls: append(append([]string{}, pipeline[:6]...), StepDeleteRestAPI),
			expectStep:  6,
		},
		{
			description: "first step failure has nothing to compensate",
			failures:    map[string]error{StepCreateRestAPI: fmt.Errorf("denied")},
			expectCalls: []string{StepCreateRestAPI},
			expectStep:  1,
		},
		{
			description:  "compensation failure is reported",
			failures:     map[string]error{StepPutMethod: fmt.Errorf("bad request"), StepDeleteRestAPI: fmt.Errorf("throttled")},
			expectCalls:  append(append([]string{}, pipeline[:4]...), StepDeleteRestAPI),
			expectStep:   4,
			expectAPIs:   1,
			expectErrors: 2,
		},
		{
			description: "cancelled caller still compensates api",
			cancelAt:    StepCreateDeployment,
			expectCalls: append(append([]string{}, pipeline[:6]...), StepDeleteRestAPI),
			expectStep:  6,
		},
	}

	for _, testCase := range testCases {
		plane := newControlPlane(testCase.failures)
		ctx, cancel := context.WithCancel(context.Background())
		if testCase.cancelAt != "" {
			plane.hooks = map[string]func(){testCase.cancelAt: cancel}
		}
		publisher := mem.New()
		srv := New(&Config{Region: "us-east-2", Rollback: true}, plane.gateway(), plane.lambda(), WithLogger(discard), WithPublisher(publisher))
		_, _, err := srv.Create(ctx, newRequest())
		cancel()
		if !assert.NotNil(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expectCalls, distinct(plane.calls), testCase.description)
		assert.Len(t, plane.apis, testCase.expectAPIs, testCase.description)
		assert.True(t, shared.IsKind(err, shared.RemoteOperationFailed), testCase.description)
		if testCase.expectErrors > 0 {
			errs, ok := err.(*shared.Errors)
			if assert.True(t, ok, testCase.description) {
				assert.Len(t, errs.Errors, testCase.expectErrors, testCase.description)
				assert.Equal(t, testCase.expectStep, errs.Errors[0].(*shared.Error).StepIndex, testCase.description)
			}
			continue
		}
		assert.Equal(t, testCase.expectStep, err.(*shared.Error).StepIndex, testCase.description)
	}
}

func TestService_Create_InvalidRequest(t *testing.T) {
	plane := newControlPlane(nil)
	srv := New(&Config{Region: "us-east-2"}, plane.gateway(), plane.lambda(), WithLogger(discard))
	request := newRequest()
	request.BasePath = ""
	_, _, err := srv.Create(context.Background(), request)
	assert.NotNil(t, err)
	assert.Empty(t, plane.calls)
}

func TestService_Delete(t *testing.T) {
	plane := newControlPlane(nil)
	publisher := mem.New()
	srv := New(&Config{Region: "us-east-2"}, plane.gateway(), plane.lambda(), WithLogger(discard), WithPublisher(publisher))
	ctx := context.Background()
	first, _, err := srv.Create(ctx, newRequest())
	if !assert.Nil(t, err) {
		return
	}
	assert.Nil(t, srv.Delete(ctx, first.APIID))
	assert.Len(t, plane.apis, 0)

	err = srv.Delete(ctx, first.APIID)
	assert.True(t, shared.IsKind(err, shared.RemoteOperationFailed), "deleting deleted api")
	assert.Equal(t, StepDeleteRestAPI, err.(*shared.Error).Step)

	second, _, err := srv.Create(ctx, newRequest())
	if !assert.Nil(t, err) {
		return
	}
	assert.NotEqual(t, first.APIID, second.APIID)
	assert.Len(t, plane.permissions, 2, "delete leaves invoke permission in place")

	kinds := []event.Kind{}
	for _, anEvent := range publisher.Events() {
		kinds = append(kinds, anEvent.Kind)
	}
	assert.Equal(t, []event.Kind{event.Provisioned, event.Deleted, event.Provisioned}, kinds)
}

func TestService_Revoke(t *testing.T) {
	plane := newControlPlane(nil)
	srv := New(&Config{Region: "us-east-2"}, plane.gateway(), plane.lambda(), WithLogger(discard))
	ctx := context.Background()
	descriptor, _, err := srv.Create(ctx, newRequest())
	if !assert.Nil(t, err) {
		return
	}
	assert.Nil(t, srv.Revoke(ctx, descriptor))
	assert.Len(t, plane.permissions, 0)
	err = srv.Revoke(ctx, descriptor)
	assert.True(t, shared.IsKind(err, shared.RemoteOperationFailed))
	assert.Equal(t, StepRemovePermission, err.(*shared.Error).Step)
}
