package main

import (
	"os"

	"github.com/google/uuid"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/db"
	"github.com/ricardojlrufino/whatsapp-history-exporter/migrate"
	"github.com/ricardojlrufino/whatsapp-history-exporter/utils"
)

func main() {
	log := waLog.Stdout("Migrate", "INFO", true)

	cfg, err := utils.LoadConfig("config.json")
	if err != nil {
		log.Warnf("Could not load config.json, using defaults: %v", err)
		cfg = utils.DefaultConfig()
	}

	if err := run(cfg, log); err != nil {
		log.Errorf("Migration failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *utils.Config, log waLog.Logger) error {
	runID := uuid.New().String()
	log.Infof("Starting migration run %s from %s", runID, cfg.Archive.Root)

	store, err := db.NewStore("mysql", cfg.Database.GetDSN(), log.Sub("Database"))
	if err != nil {
		return err
	}

	if err := store.InitSchema(); err != nil {
		store.Close()
		return err
	}

	migrator := migrate.New(store, log.Sub("Migrator"))

	stats, err := migrator.MigrateAll(cfg.Archive.Root, func(chatID string, processed int) {
		log.Infof("Chat %s: %d messages processed", chatID, processed)
	})
	if err != nil {
		return err
	}

	total := 0
	for _, chat := range stats {
		total += chat.Processed
	}
	log.Infof("Migration run %s finished: %d chats, %d messages", runID, len(stats), total)
	return nil
}
