package kafka

import (
	"context"
	"fmt"
	"github.com/segmentio/kafka-go"
	"github.com/viant/lambdagate/stream"
	"log/slog"
	"strconv"
	"time"
)

//Source represents kafka topic partition source; cursor token holds the next offset
type Source struct {
	config *Config
	dial   dialer
	logger *slog.Logger
}

//Open returns cursor at the partition last offset
func (s *Source) Open(ctx context.Context, topic string) (*stream.Cursor, error) {
	conn, err := s.dial(ctx, s.config.Brokers, topic, s.config.Partition)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %v leader: %w", topic, err)
	}
	defer conn.Close()
	offset, err := conn.ReadLastOffset()
	if err != nil {
		return nil, fmt.Errorf("failed to read %v last offset: %w", topic, err)
	}
	s.logger.Debug("opened cursor", "topic", topic, "partition", s.config.Partition, "offset", offset)
	return &stream.Cursor{StreamName: topic, ShardID: strconv.Itoa(s.config.Partition), IteratorToken: strconv.FormatInt(offset, 10)}, nil
}

//Read fetches messages from cursor offset
func (s *Source) Read(ctx context.Context, cursor *stream.Cursor) (*stream.Batch, error) {
	if cursor == nil {
		return nil, fmt.Errorf("cursor was empty")
	}
	offset, err := strconv.ParseInt(cursor.IteratorToken, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor %v offset: %w", cursor, err)
	}
	partition, err := strconv.Atoi(cursor.ShardID)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor %v partition: %w", cursor, err)
	}
	conn, err := s.dial(ctx, s.config.Brokers, cursor.StreamName, partition)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %v leader: %w", cursor, err)
	}
	defer conn.Close()
	if _, err = conn.Seek(offset, kafka.SeekAbsolute); err != nil {
		return nil, fmt.Errorf("failed to seek %v to %v: %w", cursor, offset, err)
	}
	deadline := time.Now().Add(s.config.MaxWait())
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	messages, err := conn.Fetch(deadline, s.config.MinBytes, s.config.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %v: %w", cursor, err)
	}
	batch := &stream.Batch{}
	next := offset
	for _, message := range messages {
		batch.Records = append(batch.Records, stream.NewRecord(string(message.Key), strconv.FormatInt(message.Offset, 10), message.Value))
		next = message.Offset + 1
	}
	batch.Next = cursor.Advance(strconv.FormatInt(next, 10))
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

func withDialer(dial dialer) Option {
	return func(s *Source) {
		s.dial = dial
	}
}

//New creates kafka source
func New(config *Config, options ...Option) *Source {
	config.Init()
	ret := &Source{config: config, dial: dialLeader, logger: slog.Default()}
	for _, option := range options {
		option(ret)
	}
	return ret
}
