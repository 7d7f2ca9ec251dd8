package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/internal/config"
	"github.com/comalice/fsmx/internal/logging"
	"github.com/comalice/fsmx/internal/production"
	"github.com/comalice/fsmx/observe"
)

// app is the state shared by all subcommands.
type app struct {
	in  io.Reader
	out io.Writer

	cfgPath     string
	logLevel    string
	logFormat   string
	metricsAddr string

	cfg     *config.Config
	log     *slog.Logger
	metrics *observe.Metrics
	notices chan production.Notice
	pub     *production.ChannelPublisher
	server  *http.Server
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{in: in, out: out}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "fsmdemo",
		Short:             "Run and inspect the fsmx example machines",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "YAML or TOML config file")
	f.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&a.logFormat, "log-format", "", "log format (text, json)")
	f.StringVar(&a.metricsAddr, "metrics-addr", "", "serve /metrics on this address")

	root.AddCommand(newElevatorCmd(a), newSwitchCmd(a), newDescribeCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = a.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return err
	}
	a.log = logging.New(
		logging.WithLevel(level),
		logging.WithFormat(format),
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithAttr(slog.String("session", uuid.NewString())),
	)

	a.metrics = observe.NewMetrics(cfg.Metrics.Namespace)
	a.notices = make(chan production.Notice, 64)
	a.pub = production.NewChannelPublisher(a.notices)

	if cfg.Metrics.Addr != "" {
		return a.serveMetrics(cfg.Metrics.Addr)
	}
	return nil
}

func (a *app) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server", slog.Any("error", err))
		}
	}()
	a.log.Info("serving metrics", slog.String("addr", ln.Addr().String()))
	return nil
}

// execute runs root and tears the app down whether or not the command
// succeeded.
func (a *app) execute(root *cobra.Command) (err error) {
	defer func() {
		if terr := a.teardown(context.Background()); err == nil {
			err = terr
		}
	}()
	return root.Execute()
}

func (a *app) teardown(ctx context.Context) error {
	if a.pub != nil {
		a.flush()
		if n := a.pub.Dropped(); n > 0 {
			a.log.Warn("notices dropped", slog.Int("count", n))
		}
		_ = a.pub.Close()
		a.pub = nil
	}
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// observer is attached to every machine the demo builds.
func (a *app) observer() fsmx.Observer {
	return observe.Multi(observe.NewLogger(a.log), a.metrics, observe.NewTracer(), a.pub)
}

// flush prints the transitions published since the last call.
func (a *app) flush() {
	for {
		select {
		case n := <-a.notices:
			if n.Type == "transition" {
				fmt.Fprintf(a.out, "  [%s] %s -> %s\n", n.Machine, n.From, n.To)
			}
		default:
			return
		}
	}
}
