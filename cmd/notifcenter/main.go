// notifcenter is a terminal notification center for the hospital
// application. It keeps an unread badge current by polling the notification
// service, and opens a panel listing recent notifications that can be marked
// read, deleted, or opened in the browser.
//
// On first run (no base URL configured) an interactive setup form asks for
// the service URL and the session cookie of a logged-in browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/nhle/notification-center/internal/app"
	"github.com/nhle/notification-center/internal/credential"
	"github.com/nhle/notification-center/internal/csrf"
	"github.com/nhle/notification-center/internal/logging"
	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/page"
	"github.com/nhle/notification-center/internal/service"
	"github.com/nhle/notification-center/internal/ui/setup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var baseURL string
	var debug bool
	var runSetup bool

	flagSet := pflag.NewFlagSet("notifcenter", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", model.DefaultConfigPath(), "path to the configuration file")
	flagSet.StringVar(&baseURL, "base-url", "", "root URL of the hospital application (overrides the config file)")
	flagSet.BoolVar(&debug, "debug", false, "log at debug level")
	flagSet.BoolVar(&runSetup, "setup", false, "run the setup form even when a base URL is configured")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.Service.BaseURL = baseURL
	}

	if runSetup || cfg.Service.BaseURL == "" {
		values, err := setup.Run(cfg)
		if err != nil {
			return err
		}
		if err := setup.Save(configPath, values, cfg); err != nil {
			return err
		}
	}

	logFile, err := logging.OpenFile(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer logFile.Close()

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	logger := logging.New(logFile, level, false)

	session, err := credential.Get(credential.SessionKey(cfg.Service.BaseURL))
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			logger.Warn().Err(err).Msg("reading session cookie from keyring")
		}
		session = ""
	}

	jar, err := service.NewSessionJar(cfg.Service.BaseURL, session)
	if err != nil {
		return err
	}
	client := service.NewClient(cfg.Service, jar, cfg.Timeout())

	caps, doc := probe(client, cfg, logger)

	m := app.New(app.Options{
		Config:       cfg,
		Service:      client,
		Tokens:       csrf.NewResolver(doc).WithFetcher(client),
		Capabilities: caps,
		Logger:       logger,
	})
	defer m.Shutdown()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running notification center: %w", err)
	}
	return nil
}

// probe fetches the shell page once. When it cannot be fetched every
// capability is assumed and the token resolver starts empty.
func probe(client *service.Client, cfg *model.AppConfig, logger zerolog.Logger) (page.Capabilities, *page.Document) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	doc, err := client.FetchPage(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("fetching shell page, assuming every binding is present")
		return page.All(), nil
	}

	caps := page.Probe(doc)
	logger.Debug().
		Bool("trigger", caps.Trigger).
		Bool("badge", caps.Badge).
		Bool("dropdown", caps.Dropdown).
		Bool("overlay", caps.Overlay).
		Bool("list", caps.List).
		Bool("mark_all", caps.MarkAll).
		Msg("probed shell page")
	return caps, doc
}
