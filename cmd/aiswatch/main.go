package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seastream/aiswatch/internal/api"
	"github.com/seastream/aiswatch/internal/chart"
	"github.com/seastream/aiswatch/internal/config"
	"github.com/seastream/aiswatch/internal/database"
	"github.com/seastream/aiswatch/internal/fleet"
	"github.com/seastream/aiswatch/internal/logging"
	"github.com/seastream/aiswatch/internal/notify"
	"github.com/seastream/aiswatch/internal/realtime"
	"github.com/seastream/aiswatch/internal/session"
	"github.com/seastream/aiswatch/internal/state"
	"github.com/seastream/aiswatch/internal/ui"
	"github.com/seastream/aiswatch/internal/zones"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	serverURL := flag.String("server", "", "Backend base URL (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	if err := run(*configPath, *serverURL, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "aiswatch: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, serverURL, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serverURL != "" {
		if err := cfg.OverrideServer(serverURL); err != nil {
			return err
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, closeLog, err := logging.Open(cfg.DataDir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info().Str("server", cfg.ServerURL).Msg("starting")

	db, err := database.Open(database.Path(cfg.DataDir))
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := session.NewStore(db)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.ServerURL, store.Token,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithUnauthorizedHook(func() {
			if err := store.Clear(); err != nil {
				logger.Error().Err(err).Msg("clearing rejected session")
			}
		}),
	)

	transport := realtime.NewTransport(cfg.WebsocketURL, cfg.ReconnectDelay, logger)
	defer transport.Close()

	var coast []chart.Polyline
	if cfg.CoastlineShapefile != "" {
		coast, err = chart.LoadCoastline(cfg.CoastlineShapefile)
		if err != nil {
			logger.Warn().Err(err).Msg("coastline overlay unavailable")
		}
	}

	svc := ui.Services{
		Config:        *cfg,
		Logger:        logger,
		API:           client,
		Session:       store,
		Vessels:       state.NewIndex(),
		Fleet:         fleet.NewCache(client, logger),
		Zones:         zones.NewCache(client, logger),
		Notifications: notify.NewBuffer(),
		Transport:     transport,
		Coast:         coast,
	}

	p := tea.NewProgram(ui.NewModel(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
