package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"finrec/internal/amqp"
	"finrec/internal/bridge"
	"finrec/internal/budget"
	"finrec/internal/cli"
	"finrec/internal/codec"
	"finrec/internal/config"
	apphttp "finrec/internal/http"
	"finrec/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	logger.Info("Starting finrec-bridge", "port", cfg.Port, "amqp_enabled", cfg.AMQPEnabled())

	limits := cli.LoadBudgetLimits(logger, cfg)

	ctx, cancel := cli.SignalContext(logger)
	err := run(ctx, cfg, limits, logger)
	cancel()

	if err != nil {
		logger.Error("Bridge stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Bridge stopped")
}

// run serves the bridge until ctx is cancelled or a transport fails. Every
// resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, limits *budget.Limits, logger *log.Logger) error {
	c, err := codec.New()
	if err != nil {
		logger.WithComponent(log.ComponentCodec).Error("Failed to compile record schemas", log.FieldError, err)
		return fmt.Errorf("compile record schemas: %w", err)
	}
	b := bridge.New(c, limits, logger)

	var client *amqp.Client
	if cfg.AMQPEnabled() {
		client, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPPrefetch, logger)
		if err != nil {
			return fmt.Errorf("initialize AMQP client: %w", err)
		}
		defer client.Close()
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	g, ctx := errgroup.WithContext(ctx)

	srv := apphttp.NewServer(":"+cfg.Port, cfg.ServerMode, b, logger)
	g.Go(func() error {
		return srv.Run(ctx, cfg.ShutdownTimeout)
	})

	if client != nil {
		g.Go(func() error {
			if err := client.Serve(ctx, b); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
