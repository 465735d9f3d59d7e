// Wire Panels - maintenance wire puzzles for building devices.
//
// This is the main entry point for the wire panel service. It builds every
// configured board, serves the HTTP and WebSocket API, and bridges board
// state and operator commands over MQTT.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	_ "github.com/nerrad567/gray-logic-wires/migrations"

	"github.com/nerrad567/gray-logic-wires/internal/api"
	"github.com/nerrad567/gray-logic-wires/internal/audit"
	"github.com/nerrad567/gray-logic-wires/internal/host"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		err = runMigrate(ctx, os.Args[2:], os.Stdout)
	} else {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting wire panels",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	layouts := wires.NewLayoutCache(wires.NewSQLiteLayoutRepository(db.DB))
	layouts.SetLogger(log.Component("layouts"))

	deps := host.Deps{
		Config:  cfg,
		Logger:  log,
		Layouts: layouts,
		Boards:  wires.NewSQLiteBoardRepository(db.DB),
		Audit:   audit.NewSQLiteRepository(db.DB),
	}
	backends := map[string]api.ConnectionChecker{}

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		deps.Publisher = mqttClient
		backends["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		deps.Telemetry = influxClient
		backends["influxdb"] = influxClient
	}

	// The hub must exist before boards start so their first snapshots reach it.
	hub := api.NewHub(cfg.WebSocket, log)
	deps.Hub = hub

	h, err := host.New(deps)
	if err != nil {
		return fmt.Errorf("creating host: %w", err)
	}
	if startErr := h.Start(ctx); startErr != nil {
		return fmt.Errorf("starting boards: %w", startErr)
	}
	defer func() {
		log.Info("stopping boards")
		h.Close()
	}()
	log.Info("boards started", "boards", len(h.BoardIDs()))

	if mqttClient != nil {
		if subErr := h.SubscribeCommands(mqttClient); subErr != nil {
			return fmt.Errorf("subscribing to board commands: %w", subErr)
		}
		log.Info("listening for board commands", "topic", mqtt.Topics{}.AllBoardCommands())
	}

	srv, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Host:        h,
		ExternalHub: hub,
		Backends:    backends,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if startErr := srv.Start(gctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		log.Warn("health check failed", "error", err)
	} else {
		log.Info("all health checks passed")
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-gctx.Done()
	log.Info("shutdown signal received, cleaning up")

	if closeErr := srv.Close(); closeErr != nil {
		log.Error("error closing API server", "error", closeErr)
	}
	if waitErr := g.Wait(); waitErr != nil {
		return waitErr
	}

	// Deferred Close() calls run in reverse order:
	// boards, InfluxDB, MQTT, database.
	log.Info("wire panels stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses WIREPANEL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WIREPANEL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies the infrastructure connections. MQTT and InfluxDB
// are skipped when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
