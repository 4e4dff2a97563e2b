package kafka

import (
	"context"
	"errors"
	"github.com/segmentio/kafka-go"
	"io"
	"net"
	"time"
)

//connection represents partition leader connection
type connection interface {
	ReadLastOffset() (int64, error)
	Seek(offset int64, whence int) (int64, error)
	Fetch(deadline time.Time, minBytes, maxBytes int) ([]kafka.Message, error)
	Close() error
}

type dialer func(ctx context.Context, brokers []string, topic string, partition int) (connection, error)

type leaderConn struct {
	*kafka.Conn
}

//Fetch reads a single batch, a deadline without messages yields an empty result
func (c *leaderConn) Fetch(deadline time.Time, minBytes, maxBytes int) ([]kafka.Message, error) {
	if err := c.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	batch := c.ReadBatch(minBytes, maxBytes)
	var messages []kafka.Message
	for {
		message, err := batch.ReadMessage()
		if err != nil {
			break
		}
		messages = append(messages, message)
	}
	err := batch.Close()
	if isTimeout(err) || errors.Is(err, io.EOF) {
		err = nil
	}
	return messages, err
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func dialLeader(ctx context.Context, brokers []string, topic string, partition int) (connection, error) {
	var err error
	for _, broker := range brokers {
		var conn *kafka.Conn
		if conn, err = kafka.DialLeader(ctx, "tcp", broker, topic, partition); err == nil {
			return &leaderConn{Conn: conn}, nil
		}
	}
	return nil, err
}
