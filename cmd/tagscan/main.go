// Command tagscan periodically enumerates the symbolic tag table of each
// configured Omron controller and republishes the resulting catalog to
// MQTT, Kafka, and/or Valkey, while exposing the same catalog over a small
// HTTP API.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/omrontag/tagscan/api"
	"github.com/omrontag/tagscan/config"
	"github.com/omrontag/tagscan/kafka"
	"github.com/omrontag/tagscan/logging"
	"github.com/omrontag/tagscan/mqtt"
	"github.com/omrontag/tagscan/publish"
	"github.com/omrontag/tagscan/scanner"
	"github.com/omrontag/tagscan/valkey"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to configuration file")
	logPath := flag.String("log", "", "Path to log file (empty disables file logging)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tagscan %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	var logger *logging.FileLogger
	if *logPath != "" {
		logger, err = logging.NewFileLogger(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()
	}

	sinks := buildSinks(cfg)

	sched := scanner.New(cfg.ScanEvery, sinks, logger)
	sched.LoadFromConfig(cfg)
	sched.Start()
	defer sched.Stop()

	var apiServer *api.Server
	if cfg.REST != nil && cfg.REST.Enabled {
		apiServer = api.NewServer(sched, cfg.REST)
		if err := apiServer.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to start REST server: %v\n", err)
		} else {
			fmt.Printf("REST API listening on %s\n", apiServer.Address())
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if apiServer != nil {
		apiServer.Stop()
	}
}

// buildSinks constructs one publish.Sink adapter per enabled publisher in cfg.
func buildSinks(cfg *config.Config) []publish.Sink {
	var sinks []publish.Sink

	if cfg.MQTT != nil && cfg.MQTT.Enabled {
		mgr := mqtt.NewManager()
		mgr.LoadFromConfig(cfg.MQTT)
		mgr.StartAll()
		sinks = append(sinks, publish.MQTTSink{Manager: mgr})
	}

	if cfg.Kafka != nil && cfg.Kafka.Enabled {
		producer := kafka.NewProducer(&kafka.Config{
			Name:    "tagscan",
			Enabled: true,
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		if err := producer.Connect(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: kafka connect failed: %v\n", err)
		}
		sinks = append(sinks, publish.KafkaSink{Producer: producer, Topic: cfg.Kafka.Topic})
	}

	if cfg.Valkey != nil && cfg.Valkey.Enabled {
		pub := valkey.NewPublisher(cfg.Valkey)
		if err := pub.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: valkey connect failed: %v\n", err)
		}
		sinks = append(sinks, publish.ValkeySink{Publisher: pub})
	}

	return sinks
}
