package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmsolberg/nmeahub/internal/bridge"
	"github.com/tmsolberg/nmeahub/internal/bus"
	"github.com/tmsolberg/nmeahub/internal/config"
	"github.com/tmsolberg/nmeahub/internal/logger"
	"github.com/tmsolberg/nmeahub/internal/nmea"
	"github.com/tmsolberg/nmeahub/internal/router"
	"github.com/tmsolberg/nmeahub/internal/server"
	"github.com/tmsolberg/nmeahub/internal/source"
)

func main() {
	configPath := flag.String("config", "/etc/nmeahub/config.yaml", "Path to config file")
	demo := flag.Bool("demo", false, "Run with simulated NMEA data")
	listenAddr := flag.String("listen", "", "Override listen address (e.g. :8090)")
	verbose := flag.Bool("verbose", false, "Log dropped sentences")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] nmeahub starting")

	cfg := config.Load(*configPath)
	if *demo {
		cfg.Source.Type = "demo"
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	if *verbose {
		cfg.Source.Verbose = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("[main] received %v, shutting down", sig)
		cancel()
	}()

	feed := bus.New()
	rt := router.New(feed)
	rt.SetVerbose(cfg.Source.Verbose)
	if len(cfg.Identifiers.Fix) > 0 {
		rt.SetEnabledFixIdentifiers(cfg.Identifiers.Fix)
	}
	if len(cfg.Identifiers.Nav) > 0 {
		rt.SetEnabledNavIdentifiers(cfg.Identifiers.Nav)
	}

	// CSV record logging
	rec := logger.New(logger.Config{
		Enabled:    cfg.Logging.Enabled,
		Path:       cfg.Logging.Path,
		IntervalMs: cfg.Logging.Interval,
	})
	defer rec.Close()
	go recordLoop(ctx, feed, rec)

	// MQTT republish bridge
	if cfg.MQTT.Enabled {
		go func() {
			if err := bridge.Run(ctx, cfg.MQTT, feed); err != nil {
				log.Printf("[main] mqtt bridge exited: %v", err)
			}
		}()
	}

	// Input source
	var src source.Source
	switch cfg.Source.Type {
	case "serial":
		src = source.NewSerial(source.SerialConfig{
			PortPath: cfg.Source.PortPath,
			BaudRate: cfg.Source.BaudRate,
		})
	case "replay":
		src = source.NewReplay(cfg.Source.File)
	default:
		src = source.NewDemo()
	}
	go pumpWithRetry(ctx, src, cfg.Source.Encoding, rt)

	srv := server.New(cfg, rt, feed)
	if err := srv.Run(ctx); err != nil {
		log.Printf("[main] server exited: %v", err)
	}
}

// recordLoop feeds decoded records into the CSV logger.
func recordLoop(ctx context.Context, feed *bus.Bus, rec *logger.Logger) {
	sub := feed.Subscribe(256, bus.TopicFixData, bus.TopicNavData)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sub.C:
			switch p := msg.Payload.(type) {
			case *nmea.FixData:
				rec.RecordFix(p)
			case *nmea.NavigationData:
				rec.RecordNav(p)
			}
		}
	}
}

// pumpWithRetry connects the source with exponential backoff and keeps
// feeding batches into the router, reconnecting on read errors. Demo mode
// gets a small pacing delay so it does not spin.
func pumpWithRetry(ctx context.Context, src source.Source, encoding string, rt *router.Router) {
	delay := 1 * time.Second
	maxDelay := 60 * time.Second

	dispatch := func(batch string) {
		rt.DispatchBytes([]byte(batch), encoding)
		if _, ok := src.(*source.DemoSource); ok {
			time.Sleep(100 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := src.Connect(); err != nil {
			log.Printf("[%s] connect failed: %v (retry in %v)", src.Name(), err, delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
			continue
		}
		log.Printf("[%s] connected", src.Name())
		delay = 1 * time.Second

		err := source.Run(ctx, src, dispatch)
		src.Close()
		if err == nil || ctx.Err() != nil {
			return
		}
		log.Printf("[%s] read error: %v (reconnecting)", src.Name(), err)
	}
}
