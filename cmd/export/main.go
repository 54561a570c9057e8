package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/archive"
	"github.com/ricardojlrufino/whatsapp-history-exporter/exporter"
	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
	"github.com/ricardojlrufino/whatsapp-history-exporter/namecache"
	"github.com/ricardojlrufino/whatsapp-history-exporter/server"
	"github.com/ricardojlrufino/whatsapp-history-exporter/session"
	"github.com/ricardojlrufino/whatsapp-history-exporter/utils"
)

func main() {
	log := waLog.Stdout("Export", "INFO", true)

	cfg, err := utils.LoadConfig("config.json")
	if err != nil {
		log.Warnf("Could not load config.json, using defaults: %v", err)
		cfg = utils.DefaultConfig()
	}

	if err := run(cfg, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg *utils.Config, log waLog.Logger) error {
	policy := exporter.NewPolicy(cfg.Sync, log.Sub("Policy"))

	names, err := namecache.Open(cfg.Archive.NameCacheDB)
	if err != nil {
		return err
	}
	defer names.Close()

	container, err := sqlstore.New("sqlite3", "file:"+cfg.Archive.SessionDB+"?_foreign_keys=on", log.Sub("Database"))
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	writer := archive.NewWriter(cfg.Archive.Root, log.Sub("Archive"))

	pipeline := &exporter.Pipeline{
		Writer: writer,
		Policy: policy,
		Log:    log.Sub("Pipeline"),
	}

	mgr, err := session.NewManager(container, pipeline, names, session.ReconnectPolicyFromConfig(cfg.Session), log.Sub("Session"))
	if err != nil {
		return err
	}

	srv := server.New(writer.Root(), mgr.IsConnected, log.Sub("Server"))
	pipeline.Notify = func(env *models.MessageEnvelope) {
		srv.Hub().Broadcast("message", env)
	}

	go func() {
		if err := srv.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			log.Errorf("Status API stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = mgr.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		log.Infof("Shutting down")
		return nil
	case errors.Is(err, session.ErrLoggedOut):
		return errors.New("device logged out, delete the session database and pair again")
	default:
		return err
	}
}
