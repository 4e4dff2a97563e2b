package aws

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	ntypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/viant/lambdagate/event"
	"strings"
	"sync"
)

type (
	//SNSAPI represents sns operations used by the publisher
	SNSAPI interface {
		Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
		ListTopics(ctx context.Context, params *sns.ListTopicsInput, optFns ...func(*sns.Options)) (*sns.ListTopicsOutput, error)
	}

	//SQSAPI represents sqs operations used by the publisher
	SQSAPI interface {
		SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
		GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	}

	//Publisher publishes events to sns topic or sqs queue
	Publisher struct {
		dest     *event.Resource
		snsAPI   SNSAPI
		sqsAPI   SQSAPI
		mux      sync.Mutex
		location string
	}
)

//Publish publishes an event
func (p *Publisher) Publish(ctx context.Context, anEvent *event.Event) (*event.Confirmation, error) {
	switch p.dest.Type {
	case event.ResourceTypeTopic:
		return p.publishMessage(ctx, anEvent)
	case event.ResourceTypeQueue:
		return p.sendMessage(ctx, anEvent)
	}
	return nil, fmt.Errorf("unsupported resource type: %v", p.dest.Type)
}

func (p *Publisher) sendMessage(ctx context.Context, anEvent *event.Event) (*event.Confirmation, error) {
	queueURL, err := p.queueURL(ctx)
	if err != nil {
		return nil, err
	}
	body, err := anEvent.Payload()
	if err != nil {
		return nil, err
	}
	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{},
	}
	for k, v := range anEvent.Attributes() {
		input.MessageAttributes[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	result, err := p.sqsAPI.SendMessage(ctx, input)
	if err != nil {
		return nil, err
	}
	return &event.Confirmation{MessageID: aws.ToString(result.MessageId)}, nil
}

func (p *Publisher) queueURL(ctx context.Context) (string, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.location != "" {
		return p.location, nil
	}
	if strings.HasPrefix(p.dest.URL, "https://") {
		p.location = p.dest.URL
		return p.location, nil
	}
	result, err := p.sqsAPI.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(p.dest.Name)})
	if err != nil {
		return "", fmt.Errorf("failed to lookup queue URL %v: %w", p.dest.Name, err)
	}
	p.location = aws.ToString(result.QueueUrl)
	return p.location, nil
}

func (p *Publisher) publishMessage(ctx context.Context, anEvent *event.Event) (*event.Confirmation, error) {
	topicARN, err := p.topicARN(ctx)
	if err != nil {
		return nil, err
	}
	body, err := anEvent.Payload()
	if err != nil {
		return nil, err
	}
	input := &sns.PublishInput{
		TopicArn:          aws.String(topicARN),
		Message:           aws.String(string(body)),
		Subject:           aws.String(anEvent.Subject()),
		MessageAttributes: map[string]ntypes.MessageAttributeValue{},
	}
	for k, v := range anEvent.Attributes() {
		input.MessageAttributes[k] = ntypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	result, err := p.snsAPI.Publish(ctx, input)
	if err != nil {
		return nil, err
	}
	return &event.Confirmation{MessageID: aws.ToString(result.MessageId)}, nil
}

func (p *Publisher) topicARN(ctx context.Context) (string, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.location != "" {
		return p.location, nil
	}
	if strings.HasPrefix(p.dest.URL, "arn:") {
		p.location = p.dest.URL
		return p.location, nil
	}
	input := &sns.ListTopicsInput{}
	for {
		output, err := p.snsAPI.ListTopics(ctx, input)
		if err != nil {
			return "", err
		}
		for _, topic := range output.Topics {
			parts := strings.Split(aws.ToString(topic.TopicArn), ":")
			if parts[len(parts)-1] == p.dest.Name {
				p.location = aws.ToString(topic.TopicArn)
				return p.location, nil
			}
		}
		if output.NextToken == nil {
			break
		}
		input.NextToken = output.NextToken
	}
	return "", fmt.Errorf("failed to lookup topic ARN %v", p.dest.Name)
}

//New creates a publisher for the destination
func New(cfg aws.Config, dest *event.Resource) (*Publisher, error) {
	if err := dest.Init(); err != nil {
		return nil, err
	}
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	if dest.Region != "" {
		cfg.Region = dest.Region
	}
	return NewWithClients(dest, sns.NewFromConfig(cfg), sqs.NewFromConfig(cfg)), nil
}

//NewWithClients creates a publisher with supplied clients
func NewWithClients(dest *event.Resource, snsAPI SNSAPI, sqsAPI SQSAPI) *Publisher {
	return &Publisher{dest: dest, snsAPI: snsAPI, sqsAPI: sqsAPI}
}
