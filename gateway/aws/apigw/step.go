package apigw

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/viant/lambdagate/gateway"
)

const (
	StepCreateRestAPI    = "CreateRestApi"
	StepGetResources     = "GetResources"
	StepCreateResource   = "CreateResource"
	StepPutMethod        = "PutMethod"
	StepPutIntegration   = "PutIntegration"
	StepCreateDeployment = "CreateDeployment"
	StepAddPermission    = "AddPermission"
	StepDeleteRestAPI    = "DeleteRestApi"
	StepRemovePermission = "RemovePermission"
)

type (
	//step represents a pipeline step with optional compensation
	step struct {
		name       string
		forward    func(ctx context.Context, state *provisioning) error
		compensate func(ctx context.Context, state *provisioning) error
	}

	//provisioning holds outputs of completed steps
	provisioning struct {
		descriptor *gateway.Descriptor
		rootID     string
		resourceID string
	}
)

func (s *Service) createSteps() []*step {
	return []*step{
		{name: StepCreateRestAPI, forward: s.createRestAPI, compensate: s.deleteRestAPI},
		{name: StepGetResources, forward: s.lookupRoot},
		{name: StepCreateResource, forward: s.createResource},
		{name: StepPutMethod, forward: s.putMethod},
		{name: StepPutIntegration, forward: s.putIntegration},
		{name: StepCreateDeployment, forward: s.createDeployment},
		{name: StepAddPermission, forward: s.addPermission, compensate: s.removePermission},
	}
}

func (s *Service) createRestAPI(ctx context.Context, state *provisioning) error {
	output, err := s.api.CreateRestApiWithContext(ctx, &apigateway.CreateRestApiInput{
		Name: aws.String(state.descriptor.Name),
	})
	if err != nil {
		return err
	}
	if output.Id == nil {
		return fmt.Errorf("api id was empty")
	}
	state.descriptor.APIID = *output.Id
	s.logger.Info("created REST API", "name", state.descriptor.Name, "apiId", state.descriptor.APIID)
	return nil
}

func (s *Service) lookupRoot(ctx context.Context, state *provisioning) error {
	input := &apigateway.GetResourcesInput{
		RestApiId: aws.String(state.descriptor.APIID),
		Limit:     aws.Int64(500),
	}
	for {
		output, err := s.api.GetResourcesWithContext(ctx, input)
		if err != nil {
			return err
		}
		for _, item := range output.Items {
			if aws.StringValue(item.Path) == rootPath {
				state.rootID = aws.StringValue(item.Id)
				s.logger.Info("found root resource", "apiId", state.descriptor.APIID, "rootId", state.rootID)
				return nil
			}
		}
		if aws.StringValue(output.Position) == "" {
			break
		}
		input.Position = output.Position
	}
	return fmt.Errorf("root resource not found: %v", state.descriptor.APIID)
}

func (s *Service) createResource(ctx context.Context, state *provisioning) error {
	output, err := s.api.CreateResourceWithContext(ctx, &apigateway.CreateResourceInput{
		RestApiId: aws.String(state.descriptor.APIID),
		ParentId:  aws.String(state.rootID),
		PathPart:  aws.String(state.descriptor.Route().BasePath),
	})
	if err != nil {
		return err
	}
	state.resourceID = aws.StringValue(output.Id)
	s.logger.Info("created base path", "basePath", state.descriptor.BasePath, "resourceId", state.resourceID)
	return nil
}

func (s *Service) putMethod(ctx context.Context, state *provisioning) error {
	_, err := s.api.PutMethodWithContext(ctx, &apigateway.PutMethodInput{
		RestApiId:         aws.String(state.descriptor.APIID),
		ResourceId:        aws.String(state.resourceID),
		HttpMethod:        aws.String(AnyMethod),
		AuthorizationType: aws.String(AuthorizationNone),
	})
	if err == nil {
		s.logger.Info("created method accepting all HTTP verbs", "resourceId", state.resourceID)
	}
	return err
}

func (s *Service) putIntegration(ctx context.Context, state *provisioning) error {
	_, err := s.api.PutIntegrationWithContext(ctx, &apigateway.PutIntegrationInput{
		RestApiId:             aws.String(state.descriptor.APIID),
		ResourceId:            aws.String(state.resourceID),
		HttpMethod:            aws.String(AnyMethod),
		Type:                  aws.String(IntegrationTypeProxy),
		IntegrationHttpMethod: aws.String(IntegrationHTTPMethod),
		Uri:                   aws.String(state.descriptor.IntegrationURI()),
	})
	if err == nil {
		s.logger.Info("set integration destination", "function", state.descriptor.FunctionARN())
	}
	return err
}

func (s *Service) createDeployment(ctx context.Context, state *provisioning) error {
	_, err := s.api.CreateDeploymentWithContext(ctx, &apigateway.CreateDeploymentInput{
		RestApiId: aws.String(state.descriptor.APIID),
		StageName: aws.String(state.descriptor.Stage),
	})
	if err == nil {
		s.logger.Info("deployed REST API", "apiId", state.descriptor.APIID, "stage", state.descriptor.Stage)
	}
	return err
}

func (s *Service) addPermission(ctx context.Context, state *provisioning) error {
	sourceARN := state.descriptor.SourceARN()
	_, err := s.fn.AddPermissionWithContext(ctx, &lambda.AddPermissionInput{
		FunctionName: aws.String(state.descriptor.FunctionARN()),
		StatementId:  aws.String(s.config.StatementID(state.descriptor.APIID)),
		Action:       aws.String(InvokeAction),
		Principal:    aws.String(Principal),
		SourceArn:    aws.String(sourceARN),
	})
	if err == nil {
		s.logger.Info("granted invoke permission", "function", state.descriptor.FunctionARN(), "sourceArn", sourceARN)
	}
	return err
}

func (s *Service) deleteRestAPI(ctx context.Context, state *provisioning) error {
	_, err := s.api.DeleteRestApiWithContext(ctx, &apigateway.DeleteRestApiInput{
		RestApiId: aws.String(state.descriptor.APIID),
	})
	return err
}

func (s *Service) removePermission(ctx context.Context, state *provisioning) error {
	_, err := s.fn.RemovePermissionWithContext(ctx, &lambda.RemovePermissionInput{
		FunctionName: aws.String(state.descriptor.FunctionARN()),
		StatementId:  aws.String(s.config.StatementID(state.descriptor.APIID)),
	})
	return err
}
