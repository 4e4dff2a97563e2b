package apigw

import (
	"context"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/viant/gmetric"
	"github.com/viant/lambdagate/event"
	"github.com/viant/lambdagate/gateway"
	"github.com/viant/lambdagate/shared"
	"github.com/viant/lambdagate/stat"
	"log/slog"
	"reflect"
	"time"
)

const (
	metricName = "provision"
	createKey  = "create"
	deleteKey  = "delete"
	revokeKey  = "revoke"
	rollback   = "rollback"

	compensationTimeout = 30 * time.Second
)

type (
	//CreateRequest represents front door create request
	CreateRequest struct {
		Name       string
		BasePath   string
		Stage      string
		AccountID  string
		BackendRef string
	}

	//Service provisions an HTTP front door forwarding all traffic to a lambda function.
	//Runs are synchronous and not coordinated: callers serialize concurrent provisioning.
	Service struct {
		config    *Config
		api       apigatewayiface.APIGatewayAPI
		fn        lambdaiface.LambdaAPI
		publisher event.Publisher
		logger    *slog.Logger
		metrics   *gmetric.Service
		stats     *gmetric.Operation
	}

	//Option represents service option
	Option func(s *Service)
)

//Create runs the provisioning pipeline, it returns servable descriptor and URL.
//On failure of step k, steps 1..k-1 remain provisioned unless Config.Rollback is set.
func (s *Service) Create(ctx context.Context, request *CreateRequest) (*gateway.Descriptor, string, error) {
	descriptor := &gateway.Descriptor{
		Name:       request.Name,
		BasePath:   request.BasePath,
		Stage:      request.Stage,
		Region:     s.config.Region,
		AccountID:  request.AccountID,
		BackendRef: request.BackendRef,
	}
	if err := descriptor.Validate(); err != nil {
		return nil, "", err
	}
	onDone, values := stat.Begin(s.stats)
	defer stat.End(s.stats, onDone, values)
	values.Append(createKey)

	state := &provisioning{descriptor: descriptor}
	completed, err := s.run(ctx, s.createSteps(), state)
	if err != nil {
		values.Append(err)
		if s.config.Rollback && len(completed) > 0 {
			values.Append(rollback)
			err = s.compensate(ctx, completed, state, err)
		}
		return nil, "", err
	}
	URL := descriptor.URL()
	s.logger.Info("constructed REST API URL", "url", URL)
	s.notify(ctx, event.New(event.Provisioned, descriptor))
	return descriptor, URL, nil
}

//Delete deletes front door with all nested resources, backend invoke permission is left in place
func (s *Service) Delete(ctx context.Context, apiID string) error {
	onDone, values := stat.Begin(s.stats)
	defer stat.End(s.stats, onDone, values)
	values.Append(deleteKey)
	descriptor := &gateway.Descriptor{APIID: apiID, Region: s.config.Region}
	if err := s.deleteRestAPI(ctx, &provisioning{descriptor: descriptor}); err != nil {
		s.logger.Error("couldn't delete REST API", "apiId", apiID, "error", err)
		err = shared.NewRemoteOperationFailed(1, StepDeleteRestAPI, err)
		values.Append(err)
		return err
	}
	s.logger.Info("deleted REST API", "apiId", apiID)
	s.notify(ctx, event.New(event.Deleted, descriptor))
	return nil
}

//Revoke removes backend invoke permission granted for the descriptor
func (s *Service) Revoke(ctx context.Context, descriptor *gateway.Descriptor) error {
	onDone, values := stat.Begin(s.stats)
	defer stat.End(s.stats, onDone, values)
	values.Append(revokeKey)
	if descriptor.Region == "" {
		descriptor.Region = s.config.Region
	}
	if err := s.removePermission(ctx, &provisioning{descriptor: descriptor}); err != nil {
		s.logger.Error("couldn't revoke invoke permission", "function", descriptor.FunctionARN(), "error", err)
		err = shared.NewRemoteOperationFailed(1, StepRemovePermission, err)
		values.Append(err)
		return err
	}
	s.logger.Info("revoked invoke permission", "function", descriptor.FunctionARN(), "apiId", descriptor.APIID)
	s.notify(ctx, event.New(event.Revoked, descriptor))
	return nil
}

//Metrics returns service metrics
func (s *Service) Metrics() *gmetric.Service {
	return s.metrics
}

func (s *Service) run(ctx context.Context, steps []*step, state *provisioning) ([]*step, error) {
	for i, aStep := range steps {
		if err := aStep.forward(ctx, state); err != nil {
			s.logger.Error("provisioning step failed", "step", i+1, "name", aStep.name, "apiId", state.descriptor.APIID, "error", err)
			return steps[:i], shared.NewRemoteOperationFailed(i+1, aStep.name, err)
		}
	}
	return steps, nil
}

//compensate undoes completed steps in reverse order, it outlives caller cancellation so that a cancelled run does not leak resources
func (s *Service) compensate(ctx context.Context, completed []*step, state *provisioning, cause error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	errs := &shared.Errors{}
	errs.Append(cause)
	for i := len(completed) - 1; i >= 0; i-- {
		aStep := completed[i]
		if aStep.compensate == nil {
			continue
		}
		if err := aStep.compensate(ctx, state); err != nil {
			s.logger.Error("compensation failed", "step", i+1, "name", aStep.name, "apiId", state.descriptor.APIID, "error", err)
			errs.Append(shared.NewRemoteOperationFailed(i+1, aStep.name, err))
			continue
		}
		s.logger.Info("compensated step", "step", i+1, "name", aStep.name, "apiId", state.descriptor.APIID)
	}
	if len(errs.Errors) > 1 {
		return errs
	}
	s.notify(ctx, event.New(event.RolledBack, state.descriptor))
	return cause
}

func (s *Service) notify(ctx context.Context, anEvent *event.Event) {
	if s.publisher == nil {
		return
	}
	confirmation, err := s.publisher.Publish(ctx, anEvent)
	if err != nil {
		s.logger.Warn("failed to publish event", "kind", anEvent.Kind, "error", err)
		return
	}
	s.logger.Debug("published event", "kind", anEvent.Kind, "messageId", confirmation.MessageID)
}

//WithPublisher sets provisioning event publisher
func WithPublisher(publisher event.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

//WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

//WithMetrics sets metrics service
func WithMetrics(metrics *gmetric.Service) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

//New creates provisioning service
func New(config *Config, api apigatewayiface.APIGatewayAPI, fn lambdaiface.LambdaAPI, options ...Option) *Service {
	config.Init()
	ret := &Service{config: config, api: api, fn: fn}
	for _, option := range options {
		option(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	if ret.metrics == nil {
		ret.metrics = gmetric.New()
	}
	location := reflect.TypeOf(ret).PkgPath()
	ret.stats = ret.metrics.MultiOperationCounter(location, metricName, "provisioning performance", time.Millisecond, time.Minute, 2, stat.NewProvider(createKey, deleteKey, revokeKey, rollback))
	return ret
}
