package app

import (
	"context"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/viant/gmetric"
	"github.com/viant/lambdagate/auth/proof"
	"github.com/viant/lambdagate/consumer"
	"github.com/viant/lambdagate/endpoint"
	"github.com/viant/lambdagate/event"
	eaws "github.com/viant/lambdagate/event/aws"
	"github.com/viant/lambdagate/gateway/aws/apigw"
	"github.com/viant/lambdagate/gateway/aws/apigw/proxy"
	"github.com/viant/lambdagate/stream"
	"github.com/viant/lambdagate/stream/aws/kinesis"
	"github.com/viant/lambdagate/stream/kafka"
	"log/slog"
	"net/http"
)

//NewProvisioner creates provisioning service
func NewProvisioner(ctx context.Context, cfg *Config, logger *slog.Logger, metrics *gmetric.Service) (*apigw.Service, error) {
	sess, err := cfg.awsSession(ctx)
	if err != nil {
		return nil, err
	}
	options := []apigw.Option{apigw.WithLogger(logger), apigw.WithMetrics(metrics)}
	if cfg.Events != nil {
		publisher, err := newPublisher(ctx, cfg)
		if err != nil {
			return nil, err
		}
		options = append(options, apigw.WithPublisher(publisher))
	}
	return apigw.New(cfg.Gateway, apigateway.New(sess), lambda.New(sess), options...), nil
}

func newPublisher(ctx context.Context, cfg *Config) (event.Publisher, error) {
	resource := cfg.Secret
	if cfg.Events.Credentials != nil {
		resource = cfg.Events.Credentials
	}
	awsConfig, err := cfg.awsConfig(ctx, resource)
	if err != nil {
		return nil, err
	}
	return eaws.New(*awsConfig, cfg.Events)
}

//NewConsumer creates gated stream consumer
func NewConsumer(ctx context.Context, cfg *Config, logger *slog.Logger, metrics *gmetric.Service) (*consumer.Service, error) {
	source, err := newSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	authorizer := proof.New(cfg.ProofURL)
	return consumer.New(cfg.Consumer, authorizer, source, consumer.WithLogger(logger), consumer.WithMetrics(metrics)), nil
}

func newSource(ctx context.Context, cfg *Config, logger *slog.Logger) (stream.Source, error) {
	if cfg.Kafka != nil {
		return kafka.New(cfg.Kafka, kafka.WithLogger(logger)), nil
	}
	awsConfig, err := cfg.awsConfig(ctx, cfg.Secret)
	if err != nil {
		return nil, err
	}
	return kinesis.NewWithConfig(*awsConfig, cfg.Kinesis, kinesis.WithLogger(logger)), nil
}

//NewServer creates serving endpoint, shared consumer session is seeded before serving
func NewServer(ctx context.Context, cfg *Config, logger *slog.Logger) (*endpoint.Server, error) {
	metrics := gmetric.New()
	srv, err := NewConsumer(ctx, cfg, logger, metrics)
	if err != nil {
		return nil, err
	}
	if err = srv.Open(ctx); err != nil {
		return nil, err
	}
	return endpoint.New(cfg.Endpoint, endpoint.NewHandler(srv, logger), metrics, logger), nil
}

//NewProxy creates local proxy-all handler invoking configured routes
func NewProxy(ctx context.Context, cfg *Config, logger *slog.Logger) (http.Handler, error) {
	sess, err := cfg.awsSession(ctx)
	if err != nil {
		return nil, err
	}
	return proxy.New(lambda.New(sess), logger, cfg.Proxy.Routes...), nil
}
