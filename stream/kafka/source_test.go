package kafka

import (
	"context"
	"fmt"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/viant/lambdagate/stream"
	"io"
	"log/slog"
	"testing"
	"time"
)

type partitionStub struct {
	messages []kafka.Message
	offset   int64
	seeks    []int64
	closed   int
	dialed   []string
	fetchErr error
}

func (p *partitionStub) ReadLastOffset() (int64, error) {
	return int64(len(p.messages)), nil
}

func (p *partitionStub) Seek(offset int64, whence int) (int64, error) {
	p.seeks = append(p.seeks, offset)
	p.offset = offset
	return offset, nil
}

func (p *partitionStub) Fetch(deadline time.Time, minBytes, maxBytes int) ([]kafka.Message, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	if p.offset >= int64(len(p.messages)) {
		return nil, nil
	}
	return p.messages[p.offset:], nil
}

func (p *partitionStub) Close() error {
	p.closed++
	return nil
}

func (p *partitionStub) dial(ctx context.Context, brokers []string, topic string, partition int) (connection, error) {
	p.dialed = append(p.dialed, fmt.Sprintf("%v/%v", topic, partition))
	return p, nil
}

func (p *partitionStub) produce(values ...string) {
	for _, value := range values {
		p.messages = append(p.messages, kafka.Message{Key: []byte("k"), Value: []byte(value), Offset: int64(len(p.messages))})
	}
}

func TestSource_OpenRead(t *testing.T) {
	stub := &partitionStub{}
	stub.produce(`{"old":true}`)
	source := New(&Config{Brokers: []string{"localhost:9092"}, Partition: 0}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), withDialer(stub.dial))
	ctx := context.Background()
	cursor, err := source.Open(ctx, "canaal-output")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, &stream.Cursor{StreamName: "canaal-output", ShardID: "0", IteratorToken: "1"}, cursor)

	batch, err := source.Read(ctx, cursor)
	if !assert.Nil(t, err) {
		return
	}
	assert.True(t, batch.Empty())
	assert.Equal(t, "1", batch.Next.IteratorToken)

	stub.produce(`{"a":1}`, `{"a":2}`)
	batch, err = source.Read(ctx, batch.Next)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []*stream.Record{
		stream.NewRecord("k", "1", []byte(`{"a":1}`)),
		stream.NewRecord("k", "2", []byte(`{"a":2}`)),
	}, batch.Records)
	assert.Equal(t, "3", batch.Next.IteratorToken)
	assert.Equal(t, []int64{1, 1}, stub.seeks)
	assert.Equal(t, 3, stub.closed)
	assert.Equal(t, []string{"canaal-output/0", "canaal-output/0", "canaal-output/0"}, stub.dialed)
}

func TestSource_ReadErrors(t *testing.T) {
	var testCases = []struct {
		description string
		cursor      *stream.Cursor
		fetchErr    error
	}{
		{description: "nil cursor"},
		{description: "invalid offset", cursor: &stream.Cursor{StreamName: "t", ShardID: "0", IteratorToken: "x"}},
		{description: "invalid partition", cursor: &stream.Cursor{StreamName: "t", ShardID: "shard", IteratorToken: "1"}},
		{description: "fetch error", cursor: &stream.Cursor{StreamName: "t", ShardID: "0", IteratorToken: "0"}, fetchErr: fmt.Errorf("broker down")},
	}
	for _, testCase := range testCases {
		stub := &partitionStub{fetchErr: testCase.fetchErr}
		source := New(&Config{Brokers: []string{"localhost:9092"}}, withDialer(stub.dial))
		_, err := source.Read(context.Background(), testCase.cursor)
		assert.NotNil(t, err, testCase.description)
	}
}

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		config      *Config
		expectErr   bool
	}{
		{description: "valid", config: &Config{Brokers: []string{"localhost:9092"}}},
		{description: "no brokers", config: &Config{}, expectErr: true},
		{description: "min > max", config: &Config{Brokers: []string{"b"}, MinBytes: 10, MaxBytes: 1}, expectErr: true},
	}
	for _, testCase := range testCases {
		testCase.config.Init()
		err := testCase.config.Validate()
		assert.Equal(t, testCase.expectErr, err != nil, testCase.description)
	}
}
