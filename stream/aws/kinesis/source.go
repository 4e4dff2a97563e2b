package kinesis

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"
	"github.com/viant/lambdagate/stream"
	"log/slog"
)

//API represents kinesis operations used by the source
type API interface {
	ListShards(ctx context.Context, params *kinesis.ListShardsInput, optFns ...func(*kinesis.Options)) (*kinesis.ListShardsOutput, error)
	GetShardIterator(ctx context.Context, params *kinesis.GetShardIteratorInput, optFns ...func(*kinesis.Options)) (*kinesis.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *kinesis.GetRecordsInput, optFns ...func(*kinesis.Options)) (*kinesis.GetRecordsOutput, error)
}

//Source represents kinesis stream source
type Source struct {
	config *Config
	client API
	logger *slog.Logger
}

//Open returns LATEST cursor for configured or earliest shard
func (s *Source) Open(ctx context.Context, streamName string) (*stream.Cursor, error) {
	shardID := s.config.ShardID
	if shardID == "" {
		var err error
		if shardID, err = s.earliestShard(ctx, streamName); err != nil {
			return nil, err
		}
	}
	output, err := s.client.GetShardIterator(ctx, &kinesis.GetShardIteratorInput{
		StreamName:        aws.String(streamName),
		ShardId:           aws.String(shardID),
		ShardIteratorType: types.ShardIteratorTypeLatest,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %v/%v iterator: %w", streamName, shardID, err)
	}
	s.logger.Debug("opened cursor", "stream", streamName, "shard", shardID)
	return &stream.Cursor{StreamName: streamName, ShardID: shardID, IteratorToken: aws.ToString(output.ShardIterator)}, nil
}

func (s *Source) earliestShard(ctx context.Context, streamName string) (string, error) {
	output, err := s.client.ListShards(ctx, &kinesis.ListShardsInput{StreamName: aws.String(streamName)})
	if err != nil {
		return "", fmt.Errorf("failed to list %v shards: %w", streamName, err)
	}
	if len(output.Shards) == 0 {
		return "", fmt.Errorf("stream %v has no shards", streamName)
	}
	return aws.ToString(output.Shards[0].ShardId), nil
}

//Read reads records at cursor
func (s *Source) Read(ctx context.Context, cursor *stream.Cursor) (*stream.Batch, error) {
	if cursor.Closed() {
		return nil, fmt.Errorf("cursor was empty")
	}
	input := &kinesis.GetRecordsInput{ShardIterator: aws.String(cursor.IteratorToken)}
	if s.config.Limit > 0 {
		input.Limit = aws.Int32(s.config.Limit)
	}
	output, err := s.client.GetRecords(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", cursor, err)
	}
	batch := &stream.Batch{Next: cursor.Advance(aws.ToString(output.NextShardIterator))}
	for _, record := range output.Records {
		batch.Records = append(batch.Records, stream.NewRecord(aws.ToString(record.PartitionKey), aws.ToString(record.SequenceNumber), record.Data))
	}
	return batch, nil
}

//Option represents source option
type Option func(s *Source)

//WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

//New creates kinesis source
func New(config *Config, client API, options ...Option) *Source {
	config.Init()
	ret := &Source{config: config, client: client, logger: slog.Default()}
	for _, option := range options {
		option(ret)
	}
	return ret
}

//NewWithConfig creates kinesis source from aws config
func NewWithConfig(awsConfig aws.Config, config *Config, options ...Option) *Source {
	if config.Region != "" {
		awsConfig.Region = config.Region
	}
	return New(config, kinesis.NewFromConfig(awsConfig), options...)
}
