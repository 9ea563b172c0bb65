// notifserve runs the reference notification service: the JSON endpoints
// polled by notifcenter, the shell page it probes, and the detail pages it
// opens in the browser. Notifications are kept in a SQLite database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/nhle/notification-center/internal/logging"
	"github.com/nhle/notification-center/internal/server"
	"github.com/nhle/notification-center/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var addr string
	var dbPath string
	var seed int
	var debug bool
	var recipient string
	var session string
	var token string

	flagSet := pflag.NewFlagSet("notifserve", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", ":8000", "listen address")
	flagSet.StringVar(&dbPath, "db", "notifications.db", "path to the SQLite database (\":memory:\" for a throwaway one)")
	flagSet.IntVar(&seed, "seed", 0, "create this many sample notifications on startup")
	flagSet.BoolVar(&debug, "debug", false, "human-readable debug logging")
	flagSet.StringVar(&recipient, "user", server.DefaultRecipient, "user whose notifications are served")
	flagSet.StringVar(&session, "session", "", "require this value as the sessionid cookie")
	flagSet.StringVar(&token, "csrf-token", "", "anti-forgery token to serve (random when empty)")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	level := "info"
	if debug {
		level = "debug"
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logging.New(os.Stdout, level, debug)

	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if seed > 0 {
		if err := server.Seed(ctx, st, recipient, seed, time.Now()); err != nil {
			return err
		}
		logger.Info().Int("count", seed).Str("user", recipient).Msg("seeded notifications")
	}

	srv := server.New(st, server.Options{
		Recipient:  recipient,
		CSRFToken:  token,
		SessionKey: session,
		Logger:     logger,
	})
	return srv.Run(ctx, addr)
}
