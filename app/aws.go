package app

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/pkg/errors"
	"github.com/viant/scy"
	saws "github.com/viant/scy/auth/aws"
	"github.com/viant/scy/cred"
	"reflect"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
)

//awsCred loads credentials from secret resource, nil means default credential chain
func (c *Config) awsCred(ctx context.Context) (*cred.Aws, error) {
	return loadAwsCred(ctx, c.Secret)
}

func loadAwsCred(ctx context.Context, resource *scy.Resource) (*cred.Aws, error) {
	if resource == nil || resource.URL == "" {
		return nil, nil
	}
	srv := scy.New()
	resource.SetTarget(reflect.TypeOf(&cred.Aws{}))
	secret, err := srv.Load(ctx, resource)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load secret: %v", resource.URL)
	}
	awsCred, ok := secret.Target.(*cred.Aws)
	if !ok {
		return nil, fmt.Errorf("invalid awsCred type: expected :%T, but had: %T", awsCred, secret.Target)
	}
	return awsCred, nil
}

//awsSession creates control plane session (apigateway, lambda)
func (c *Config) awsSession(ctx context.Context) (*session.Session, error) {
	awsCred, err := c.awsCred(ctx)
	if err != nil {
		return nil, err
	}
	options := &aws.Config{Region: aws.String(c.Region)}
	if c.Gateway != nil && c.Gateway.Endpoint != "" {
		options.Endpoint = aws.String(c.Gateway.Endpoint)
	}
	if awsCred != nil {
		options.Credentials = credentials.NewStaticCredentials(awsCred.Key, awsCred.Secret, awsCred.Token)
		if awsCred.Region != "" && c.Region == "" {
			options.Region = aws.String(awsCred.Region)
		}
	}
	return session.NewSession(options)
}

//awsConfig creates data plane config (kinesis, sns, sqs)
func (c *Config) awsConfig(ctx context.Context, resource *scy.Resource) (*awsv2.Config, error) {
	awsCred, err := loadAwsCred(ctx, resource)
	if err != nil {
		return nil, err
	}
	if awsCred == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(c.Region))
		if err != nil {
			return nil, errors.Wrap(err, "failed to load default aws config")
		}
		return &cfg, nil
	}
	cfg, err := saws.NewConfig(ctx, awsCred)
	if err != nil {
		return nil, err
	}
	if cfg.Region == "" {
		cfg.Region = c.Region
	}
	return cfg, nil
}
