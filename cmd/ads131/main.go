package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yunginnanet/ftdi-ads131a0x/internal/config"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/metrics"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

type options struct {
	config    string
	transport string
	count     int
	command   string
	regs      bool
}

func flags() options {
	var o options
	flag.StringVar(&o.config, "config", "", "Config file (YAML, TOML or JSON)")
	flag.StringVar(&o.transport, "transport", "", "Override transport: sim, spidev or ft232h")
	flag.IntVar(&o.count, "n", -1, "Number of conversions, 0 runs until interrupted")
	flag.StringVar(&o.command, "cmd", "", "Issue one system command (e.g. RESET, LOCK, r) and exit")
	flag.BoolVar(&o.regs, "regs", false, "Dump the register map after configuration")
	flag.Parse()
	return o
}

func main() {
	opts := flags()

	cfg, err := config.Load(opts.config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if opts.transport != "" {
		cfg.Transport.Kind = opts.transport
	}
	if opts.count >= 0 {
		cfg.Sampling.Count = opts.count
	}
	if err = cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	l, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}
	log = l

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, opts); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("acquisition failed")
	}
	log.Info().Msg("done")
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	variant, err := cfg.Variant()
	if err != nil {
		return err
	}

	bus, err := openTransport(cfg, variant)
	if err != nil {
		return err
	}
	return acquire(ctx, cfg, opts, variant, bus)
}

// acquire drives the device on bus and owns it: bus is closed on return.
func acquire(ctx context.Context, cfg *config.Config, opts options, variant ads131a0x.Variant, bus ads131a0x.SerialInterface) (err error) {
	var (
		reg *prometheus.Registry
		m   *metrics.Metrics
	)
	if cfg.Metrics.Enable {
		reg = metrics.NewRegistry()
		m = metrics.New(reg)
		bus = m.Instrument(bus)
	}

	adc, err := ads131a0x.NewADS131A0x(bus, variant,
		ads131a0x.WithLogger(log),
		ads131a0x.WithConfig(cfg.ADC()),
	)
	if err != nil {
		_ = bus.Close()
		return err
	}

	if opts.command != "" {
		// the command must outlive the run, so the device is not stopped
		defer func() {
			err = errors.Join(err, adc.Release())
		}()
		return issue(adc, opts.command)
	}

	defer func() {
		if cerr := adc.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		log.Info().Msgf("closed %s", variant)
	}()

	found, rev, err := adc.Identify()
	if err != nil {
		return err
	}
	if found != variant {
		log.Warn().Stringer("found", found).Stringer("configured", variant).Msg("variant mismatch")
	}
	log.Info().Stringer("variant", found).Uint8("revision", rev).Msg("identified")

	log.Debug().Any("config", adc.Config()).Msgf("initializing %s", variant)
	if err = adc.Initialize(adc.Config()); err != nil {
		return err
	}

	if opts.regs {
		if _, err = adc.ReadAllRegisters(); err != nil {
			return err
		}
		log.Info().Any("values", adc.Registers()).Msgf("%s registers", variant)
	}

	if err = adc.Start(); err != nil {
		return err
	}

	// a finite scan ends the run, taking the metrics server down with it
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if reg != nil {
		srv := &http.Server{Addr: cfg.Metrics.Addr}
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler(reg))
		srv.Handler = mux

		g.Go(func() error {
			log.Info().Str("addr", cfg.Metrics.Addr).Str("path", cfg.Metrics.Path).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), cfg.Metrics.Grace)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	g.Go(func() error {
		defer cancel()
		var limiter *rate.Limiter
		if cfg.Sampling.Rate > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.Sampling.Rate), 1)
		}
		return adc.Scan(ctx, limiter, cfg.Sampling.Count, func(seq int, conv *ads131a0x.Conversion) {
			if m != nil {
				m.ObserveConversion(conv)
			}
			log.Info().Int("seq", seq).
				Uint16("status", conv.Status).
				Floats64("volts", conv.Volts).
				Msg("conversion")
		})
	})

	return g.Wait()
}

func issue(adc *ads131a0x.ADS131A0x, name string) error {
	cmd, err := ads131a0x.ParseCommand(name)
	if err != nil {
		return err
	}
	status, err := adc.IssueCommand(cmd)
	if err != nil {
		return err
	}
	log.Info().Stringer("cmd", cmd).
		Str("status", formatStatus(status)).
		Stringer("state", adc.State()).
		Msg("command issued")
	return nil
}
