package consumer

import (
	"context"
	"errors"
	"fmt"
	"github.com/cenkalti/backoff/v4"
	"github.com/viant/gmetric"
	"github.com/viant/lambdagate/auth"
	"github.com/viant/lambdagate/shared"
	"github.com/viant/lambdagate/stat"
	"github.com/viant/lambdagate/stream"
	"log/slog"
	"reflect"
	"strings"
	"time"
)

const (
	metricName    = "consume"
	pollKey       = "poll"
	emptyKey      = "empty"
	deliveredKey  = "delivered"
	timeoutKey    = "timeout"
	deniedKey     = "denied"
	disconnectKey = "disconnected"
)

type (
	//Service authorizes callers and delivers the next non-empty batch of stream records
	Service struct {
		config     *Config
		authorizer auth.Authorizer
		source     stream.Source
		shared     *Session
		sleep      func(ctx context.Context, delay time.Duration) error
		logger     *slog.Logger
		metrics    *gmetric.Service
		stats      *gmetric.Operation
	}

	//Option represents service option
	Option func(s *Service)
)

//Consume authorizes address, then polls the session cursor until records arrive.
//A nil session uses the shared session when Config.SharedSession is set, otherwise a fresh one.
func (s *Service) Consume(ctx context.Context, session *Session, address string) ([]interface{}, error) {
	onDone, values := stat.Begin(s.stats)
	defer stat.End(s.stats, onDone, values)
	if strings.TrimSpace(address) == "" {
		values.Append(disconnectKey)
		return nil, shared.NewNotConnected("address was empty")
	}
	result, err := s.authorizer.Authorize(ctx, address)
	if err != nil {
		values.Append(err)
		return nil, fmt.Errorf("failed to authorize %v: %w", address, err)
	}
	if result != auth.Authorized {
		values.Append(deniedKey)
		return nil, shared.NewUnauthorized(fmt.Sprintf("no proof for %v", address))
	}
	if session == nil {
		session = s.session()
	}
	records, err := s.poll(ctx, session, values)
	if err != nil {
		values.Append(err)
		return nil, err
	}
	values.Append(deliveredKey)
	return records, nil
}

func (s *Service) session() *Session {
	if s.config.SharedSession {
		return s.shared
	}
	return NewSession()
}

func (s *Service) poll(ctx context.Context, session *Session, values *stat.Values) ([]interface{}, error) {
	session.mux.Lock()
	defer session.mux.Unlock()
	pollCtx, cancel := context.WithTimeout(ctx, s.config.MaxWait())
	defer cancel()
	delays := s.backOff()
	for attempt := 1; ; attempt++ {
		if pollCtx.Err() != nil {
			return nil, s.interrupted(ctx, pollCtx, pollCtx.Err(), values)
		}
		if session.cursor.Closed() {
			cursor, err := s.source.Open(pollCtx, s.config.StreamName)
			if err != nil {
				return nil, s.interrupted(ctx, pollCtx, err, values)
			}
			session.cursor = cursor
		}
		values.Append(pollKey)
		batch, err := s.source.Read(pollCtx, session.cursor)
		if err != nil {
			//a failed read may have consumed the iterator, next poll reopens at LATEST
			session.cursor = nil
			return nil, s.interrupted(ctx, pollCtx, err, values)
		}
		session.cursor = batch.Next
		if !batch.Empty() {
			s.logger.Debug("received records", "session", session.ID, "count", len(batch.Records), "attempt", attempt)
			return decodeAll(batch.Records)
		}
		values.Append(emptyKey)
		if session.cursor.Closed() {
			s.logger.Debug("cursor closed, reopening", "session", session.ID, "attempt", attempt)
		}
		delay := delays.NextBackOff()
		s.logger.Debug("no records, backing off", "session", session.ID, "attempt", attempt, "delay", delay)
		if err = s.sleep(pollCtx, delay); err != nil {
			return nil, s.interrupted(ctx, pollCtx, err, values)
		}
	}
}

//interrupted maps poll interruption: caller cancellation wins, expired MaxWait is a Timeout
func (s *Service) interrupted(ctx, pollCtx context.Context, err error, values *stat.Values) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if pollCtx.Err() != nil && errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
		values.Append(timeoutKey)
		return shared.NewTimeout(fmt.Sprintf("no records within %v", s.config.MaxWait()), err)
	}
	return err
}

func (s *Service) backOff() backoff.BackOff {
	ret := backoff.NewExponentialBackOff()
	ret.InitialInterval = s.config.InitialBackoff()
	ret.RandomizationFactor = 0
	ret.Multiplier = s.config.Multiplier
	ret.MaxInterval = s.config.MaxBackoff()
	ret.MaxElapsedTime = 0
	ret.Reset()
	return ret
}

//Open seeds the shared session cursor
func (s *Service) Open(ctx context.Context) error {
	if !s.config.SharedSession {
		return nil
	}
	s.shared.mux.Lock()
	defer s.shared.mux.Unlock()
	if !s.shared.cursor.Closed() {
		return nil
	}
	cursor, err := s.source.Open(ctx, s.config.StreamName)
	if err != nil {
		return err
	}
	s.shared.cursor = cursor
	return nil
}

//Metrics returns service metrics
func (s *Service) Metrics() *gmetric.Service {
	return s.metrics
}

func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
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

func withSleep(fn func(ctx context.Context, delay time.Duration) error) Option {
	return func(s *Service) {
		s.sleep = fn
	}
}

//New creates consumer service
func New(config *Config, authorizer auth.Authorizer, source stream.Source, options ...Option) *Service {
	config.Init()
	ret := &Service{config: config, authorizer: authorizer, source: source, shared: NewSession(), sleep: sleep}
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
	ret.stats = ret.metrics.MultiOperationCounter(location, metricName, "consumer performance", time.Millisecond, time.Minute, 2, stat.NewProvider(pollKey, emptyKey, deliveredKey, timeoutKey, deniedKey, disconnectKey))
	return ret
}
