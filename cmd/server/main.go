// main wires the roaming network service: configuration, logging, the
// entity directory, the event bus and registry with their sinks, and the
// HTTP server lifecycle. Business logic lives in internal packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"chargenet/internal/events"
	eventmetrics "chargenet/internal/events/metrics"
	"chargenet/internal/events/sinks"
	invmetrics "chargenet/internal/inventory/metrics"
	"chargenet/internal/inventory/service"
	"chargenet/internal/inventory/store"
	"chargenet/internal/platform/config"
	"chargenet/internal/platform/httpserver"
	"chargenet/internal/platform/kafka"
	"chargenet/internal/platform/logger"
	"chargenet/internal/platform/metrics"
	platformredis "chargenet/internal/platform/redis"
	httptransport "chargenet/internal/transport/http"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Entity directory: postgres when configured, seeded memory otherwise.
	var dir service.Store
	if cfg.DB.URL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DB.URL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			log.Error("postgres migrate failed", "error", err)
			os.Exit(1)
		}
		dir = pg
		log.Info("using postgres entity directory")
	} else {
		mem := store.NewInMemory()
		net := store.SeedDemoNetwork(mem)
		dir = mem
		log.Info("using in-memory entity directory", "seed_network", net.ID.String())
	}

	// Event fan-out: bus, registry, sinks.
	bus := events.NewBus()

	diskSink := sinks.NewDisk(cfg.Events.LogDir)
	defer diskSink.Close()

	regOpts := []events.Option{
		events.WithDeliveryTimeout(cfg.Events.DeliveryTimeout),
		events.WithMetrics(eventmetrics.New()),
	}
	if !cfg.Events.DisableDefaults {
		regOpts = append(regOpts, events.WithDefaultSinks(sinks.NewConsole(log), diskSink))
	}
	registry := events.NewRegistry(bus, log, regOpts...)
	defer registry.Close()

	stream := sinks.NewStream()
	extraSinks := []events.Sink{stream}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		extraSinks = append(extraSinks, sinks.NewRedis(redisClient, cfg.Redis.Channel))
		log.Info("redis event sink enabled", "channel", cfg.Redis.Channel)
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Error("kafka connect failed", "error", err)
		os.Exit(1)
	}
	if producer != nil {
		defer producer.Close()
		extraSinks = append(extraSinks, sinks.NewKafka(producer))
		log.Info("kafka event sink enabled", "topic", cfg.Kafka.Topic)
	}

	for _, name := range events.All {
		g := registry.Register(name)
		for _, s := range extraSinks {
			g.Attach(s)
		}
	}

	// Services and transport.
	svc := service.New(dir, bus,
		service.WithLogger(log),
		service.WithMetrics(invmetrics.New()),
	)
	handler := httptransport.New(dir, svc, log)
	router := httptransport.NewRouter(handler, stream, metrics.New())

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting chargenet", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
