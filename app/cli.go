package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/flashbots/go-utils/httplogger"
	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/viant/gmetric"
	"github.com/viant/lambdagate/event"
	"github.com/viant/lambdagate/gateway"
	"github.com/viant/lambdagate/gateway/aws/apigw"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
)

type (
	//Options represents command line options
	Options struct {
		Global
		Create CreateCommand `command:"create" description:"provision front door for a lambda function"`
		Delete DeleteCommand `command:"delete" description:"delete provisioned REST API"`
		Revoke RevokeCommand `command:"revoke" description:"revoke gateway invoke permission"`
		Proxy  ProxyCommand  `command:"proxy" description:"run local proxy-all emulator"`
		Serve  ServeCommand  `command:"serve" description:"run gated stream endpoint"`
	}

	//Global represents options shared by all commands
	Global struct {
		ConfigURL string `short:"c" long:"config" description:"config URL" required:"true"`
		LogJSON   bool   `long:"log-json" description:"log in JSON format"`
		LogDebug  bool   `long:"log-debug" description:"log debug messages"`
		LogUID    bool   `long:"log-uid" description:"generate a uuid and add to all log messages"`
		Events    string `short:"e" long:"events" description:"event destination as type|name[|region[|secretURL[|secretKey]]], overrides config Events"`
	}

	//Target represents front door identity
	Target struct {
		BasePath  string `short:"p" long:"base-path" description:"resource path part" required:"true"`
		Stage     string `short:"s" long:"stage" description:"deployment stage" default:"test"`
		Backend   string `short:"b" long:"backend" description:"lambda function name or ARN" required:"true"`
		AccountID string `short:"a" long:"account-id" description:"AWS account id, defaults to config AccountID"`
	}

	//CreateCommand provisions front door
	CreateCommand struct {
		Name string `short:"n" long:"name" description:"REST API name" required:"true"`
		Target
		global *Global
		stdout io.Writer
	}

	//DeleteCommand deletes REST API
	DeleteCommand struct {
		APIID  string `short:"i" long:"api-id" description:"REST API id" required:"true"`
		global *Global
	}

	//RevokeCommand removes invoke permission
	RevokeCommand struct {
		APIID string `short:"i" long:"api-id" description:"REST API id" required:"true"`
		Target
		global *Global
	}

	//ProxyCommand runs local proxy
	ProxyCommand struct {
		Port   int `short:"P" long:"port" description:"listening port, defaults to config Proxy.Port"`
		global *Global
	}

	//ServeCommand runs serving endpoint
	ServeCommand struct {
		global *Global
	}
)

//Execute provisions front door and prints servable URL
func (c *CreateCommand) Execute(args []string) error {
	ctx := context.Background()
	cfg, logger, err := c.global.load(ctx)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	srv, err := NewProvisioner(ctx, cfg, logger, gmetric.New())
	if err != nil {
		return err
	}
	descriptor, URL, err := srv.Create(ctx, &apigw.CreateRequest{
		Name:       c.Name,
		BasePath:   c.BasePath,
		Stage:      c.Stage,
		AccountID:  c.accountID(cfg),
		BackendRef: c.Backend,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.stdout, "apiId: %v\nurl: %v\n", descriptor.APIID, URL)
	return err
}

//Execute deletes REST API
func (c *DeleteCommand) Execute(args []string) error {
	ctx := context.Background()
	cfg, logger, err := c.global.load(ctx)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	srv, err := NewProvisioner(ctx, cfg, logger, gmetric.New())
	if err != nil {
		return err
	}
	return srv.Delete(ctx, c.APIID)
}

//Execute revokes invoke permission
func (c *RevokeCommand) Execute(args []string) error {
	ctx := context.Background()
	cfg, logger, err := c.global.load(ctx)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	srv, err := NewProvisioner(ctx, cfg, logger, gmetric.New())
	if err != nil {
		return err
	}
	return srv.Revoke(ctx, &gateway.Descriptor{
		APIID:      c.APIID,
		BasePath:   c.BasePath,
		Stage:      c.Stage,
		Region:     cfg.Region,
		AccountID:  c.accountID(cfg),
		BackendRef: c.Backend,
	})
}

//Execute runs local proxy until interrupted
func (c *ProxyCommand) Execute(args []string) error {
	ctx := context.Background()
	cfg, logger, err := c.global.load(ctx)
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Proxy.Port = c.Port
	}
	if len(cfg.Proxy.Routes) == 0 {
		return fmt.Errorf("proxy routes were empty")
	}
	handler, err := NewProxy(ctx, cfg, logger)
	if err != nil {
		return err
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(cfg.Proxy.Port), Handler: httplogger.LoggingMiddlewareSlog(logger, handler)}
	go func() {
		for _, route := range cfg.Proxy.Routes {
			logger.Info("serving route", "prefix", route.Prefix(), "function", route.FunctionName)
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("proxy server failed", "err", err)
		}
	}()
	waitForSignal(logger)
	return server.Shutdown(ctx)
}

//Execute runs serving endpoint until interrupted
func (c *ServeCommand) Execute(args []string) error {
	ctx := context.Background()
	cfg, logger, err := c.global.load(ctx)
	if err != nil {
		return err
	}
	if err = cfg.ValidateServing(); err != nil {
		return err
	}
	server, err := NewServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	server.RunInBackground()
	waitForSignal(logger)
	server.Shutdown()
	return nil
}

func waitForSignal(logger *slog.Logger) {
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	logger.Info("server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("shutdown signal received")
}

func (t *Target) accountID(cfg *Config) string {
	if t.AccountID != "" {
		return t.AccountID
	}
	return cfg.AccountID
}

func (g *Global) load(ctx context.Context) (*Config, *slog.Logger, error) {
	logger := g.logger(os.Stderr)
	cfg, err := NewConfigFromURL(ctx, g.ConfigURL)
	if err != nil {
		return nil, nil, err
	}
	if g.Events != "" {
		if cfg.Events, err = event.EncodedResource(g.Events).Decode(); err != nil {
			return nil, nil, err
		}
		if err = cfg.Init(); err != nil {
			return nil, nil, err
		}
	}
	return cfg, logger, nil
}

func (g *Global) logger(writer io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if g.LogDebug {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(writer, options)
	if g.LogJSON {
		handler = slog.NewJSONHandler(writer, options)
	}
	logger := slog.New(handler)
	if g.LogUID {
		logger = logger.With("uid", uuid.New().String())
	}
	return logger
}

//NewOptions creates command line options
func NewOptions(stdout io.Writer) *Options {
	ret := &Options{}
	ret.Create.global = &ret.Global
	ret.Create.stdout = stdout
	ret.Delete.global = &ret.Global
	ret.Revoke.global = &ret.Global
	ret.Proxy.global = &ret.Global
	ret.Serve.global = &ret.Global
	return ret
}

//Run parses arguments and executes selected command
func Run(args []string) error {
	options := NewOptions(os.Stdout)
	_, err := flags.ParseArgs(options, args)
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		return nil
	}
	return err
}
