package apigw

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"strconv"
	"sync"
)

//controlPlane emulates api gateway and lambda control plane calls
type controlPlane struct {
	mux         sync.Mutex
	calls       []string
	failures    map[string]error
	seq         int
	apis        map[string]bool
	permissions map[string]*lambda.AddPermissionInput
	integration *apigateway.PutIntegrationInput
	method      *apigateway.PutMethodInput
	deployment  *apigateway.CreateDeploymentInput
	hooks       map[string]func()
}

func (c *controlPlane) record(ctx context.Context, name string) error {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.calls = append(c.calls, name)
	if hook, ok := c.hooks[name]; ok {
		hook()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.failures[name]
}

func (c *controlPlane) nextID(prefix string) string {
	c.seq++
	return prefix + strconv.Itoa(c.seq)
}

func (g *gatewayAPI) CreateRestApiWithContext(ctx aws.Context, input *apigateway.CreateRestApiInput, opts ...request.Option) (*apigateway.RestApi, error) {
	c := g.plane
	if err := c.record(ctx, StepCreateRestAPI); err != nil {
		return nil, err
	}
	id := c.nextID("api")
	c.apis[id] = true
	return &apigateway.RestApi{Id: aws.String(id), Name: input.Name}, nil
}

func (g *gatewayAPI) GetResourcesWithContext(ctx aws.Context, input *apigateway.GetResourcesInput, opts ...request.Option) (*apigateway.GetResourcesOutput, error) {
	c := g.plane
	if err := c.record(ctx, StepGetResources); err != nil {
		return nil, err
	}
	if aws.StringValue(input.Position) == "" {
		return &apigateway.GetResourcesOutput{
			Items:    []*apigateway.Resource{{Id: aws.String("other"), Path: aws.String("/other")}},
			Position: aws.String("page2"),
		}, nil
	}
	return &apigateway.GetResourcesOutput{
		Items: []*apigateway.Resource{{Id: aws.String("root-" + *input.RestApiId), Path: aws.String("/")}},
	}, nil
}

func (g *gatewayAPI) CreateResourceWithContext(ctx aws.Context, input *apigateway.CreateResourceInput, opts ...request.Option) (*apigateway.Resource, error) {
	c := g.plane
	if err := c.record(ctx, StepCreateResource); err != nil {
		return nil, err
	}
	return &apigateway.Resource{Id: aws.String(c.nextID("res")), ParentId: input.ParentId, PathPart: input.PathPart}, nil
}

func (g *gatewayAPI) PutMethodWithContext(ctx aws.Context, input *apigateway.PutMethodInput, opts ...request.Option) (*apigateway.Method, error) {
	c := g.plane
	if err := c.record(ctx, StepPutMethod); err != nil {
		return nil, err
	}
	c.method = input
	return &apigateway.Method{HttpMethod: input.HttpMethod}, nil
}

func (g *gatewayAPI) PutIntegrationWithContext(ctx aws.Context, input *apigateway.PutIntegrationInput, opts ...request.Option) (*apigateway.Integration, error) {
	c := g.plane
	if err := c.record(ctx, StepPutIntegration); err != nil {
		return nil, err
	}
	c.integration = input
	return &apigateway.Integration{Type: input.Type, Uri: input.Uri}, nil
}

func (g *gatewayAPI) CreateDeploymentWithContext(ctx aws.Context, input *apigateway.CreateDeploymentInput, opts ...request.Option) (*apigateway.Deployment, error) {
	c := g.plane
	if err := c.record(ctx, StepCreateDeployment); err != nil {
		return nil, err
	}
	c.deployment = input
	return &apigateway.Deployment{Id: aws.String(c.nextID("dep"))}, nil
}

func (g *gatewayAPI) DeleteRestApiWithContext(ctx aws.Context, input *apigateway.DeleteRestApiInput, opts ...request.Option) (*apigateway.DeleteRestApiOutput, error) {
	c := g.plane
	if err := c.record(ctx, StepDeleteRestAPI); err != nil {
		return nil, err
	}
	if !c.apis[*input.RestApiId] {
		return nil, awserr.New(apigateway.ErrCodeNotFoundException, fmt.Sprintf("Invalid API identifier specified %v", *input.RestApiId), nil)
	}
	delete(c.apis, *input.RestApiId)
	return &apigateway.DeleteRestApiOutput{}, nil
}

func (l *lambdaAPI) AddPermissionWithContext(ctx aws.Context, input *lambda.AddPermissionInput, opts ...request.Option) (*lambda.AddPermissionOutput, error) {
	c := l.plane
	if err := c.record(ctx, StepAddPermission); err != nil {
		return nil, err
	}
	if _, ok := c.permissions[*input.StatementId]; ok {
		return nil, awserr.New(lambda.ErrCodeResourceConflictException, "statement id already exists", nil)
	}
	c.permissions[*input.StatementId] = input
	return &lambda.AddPermissionOutput{}, nil
}

func (l *lambdaAPI) RemovePermissionWithContext(ctx aws.Context, input *lambda.RemovePermissionInput, opts ...request.Option) (*lambda.RemovePermissionOutput, error) {
	c := l.plane
	if err := c.record(ctx, StepRemovePermission); err != nil {
		return nil, err
	}
	if _, ok := c.permissions[*input.StatementId]; !ok {
		return nil, awserr.New(lambda.ErrCodeResourceNotFoundException, "statement not found", nil)
	}
	delete(c.permissions, *input.StatementId)
	return &lambda.RemovePermissionOutput{}, nil
}

type gatewayAPI struct {
	apigatewayiface.APIGatewayAPI
	plane *controlPlane
}

type lambdaAPI struct {
	lambdaiface.LambdaAPI
	plane *controlPlane
}

func (c *controlPlane) gateway() *gatewayAPI {
	return &gatewayAPI{plane: c}
}

func (c *controlPlane) lambda() *lambdaAPI {
	return &lambdaAPI{plane: c}
}

func newControlPlane(failures map[string]error) *controlPlane {
	return &controlPlane{failures: failures, apis: map[string]bool{}, permissions: map[string]*lambda.AddPermissionInput{}}
}
