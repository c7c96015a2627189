package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-pluto/lattice/config"
	"github.com/go-pluto/lattice/sim"
)

// Functions

// initLogger initializes a JSON gokit-logger set
// to the according log level supplied via cli flag.
func initLogger(loglevel string) log.Logger {

	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)

	switch strings.ToLower(loglevel) {
	case "info":
		logger = level.NewFilter(logger, level.AllowInfo())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowDebug())
	}

	return logger
}

// runPromHTTP exposes prometheus metrics at addr if one is configured.
func runPromHTTP(logger log.Logger, addr string) {

	if addr == "" {
		level.Debug(logger).Log("msg", "prometheus addr is empty, not exposing prometheus metrics")
		return
	}

	http.Handle("/metrics", promhttp.Handler())

	go func() {
		level.Info(logger).Log("msg", "prometheus handler listening", "addr", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			level.Error(logger).Log("msg", "failed to serve prometheus metrics", "err", err)
			os.Exit(1)
		}
	}()
}

func main() {

	// Parse command-line flag that defines a config path.
	configFlag := flag.String("config", "config.toml", "Provide path to configuration file in TOML syntax.")
	loglevelFlag := flag.String("loglevel", "debug", "This flag sets the default logging level.")
	flag.Parse()

	logger := initLogger(*loglevelFlag)

	// Read configuration from file.
	conf, err := config.LoadConfig(*configFlag)
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to load the config", "err", err,
		)
		os.Exit(1)
	}

	metrics := sim.NewMetrics(conf.Simulation.PrometheusAddr)
	runPromHTTP(logger, conf.Simulation.PrometheusAddr)

	// Synthesize the configured replicas.
	simulation, err := sim.New(logger, conf.Simulation, metrics)
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to initialize the simulation", "err", err,
		)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level.Info(logger).Log(
		"msg", "lattice convergence simulation running",
		"replicas", conf.Simulation.Replicas,
		"tickMillis", conf.Simulation.TickMillis,
	)

	if err := simulation.Run(ctx); err != nil {
		level.Error(logger).Log(
			"msg", "simulation failed", "err", err,
		)
		os.Exit(1)
	}

	level.Info(logger).Log("msg", "lattice shutting down")
}
