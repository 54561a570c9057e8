package exporter

import (
	"fmt"
	"os"
	"strings"

	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
	"github.com/ricardojlrufino/whatsapp-history-exporter/utils"
)

// NewPolicy builds the immutable sync policy from configuration plus the
// optional contact allow-list file. A missing allow-list file is logged and
// the policy falls back to allowing all contacts.
func NewPolicy(cfg utils.SyncConfig, log waLog.Logger) models.SyncPolicy {
	policy := models.SyncPolicy{
		IncludeMedia:  cfg.IncludeMedia,
		IncludeGroups: cfg.IncludeGroups,
		MessageTypes:  cfg.MessageTypes,
		MaxMessages:   cfg.MaxMessages,
	}

	if cfg.ContactsFile != "" {
		contacts, err := loadContactList(cfg.ContactsFile)
		if err != nil {
			log.Warnf("Contact allow-list not loaded, allowing all contacts: %v", err)
		} else {
			log.Infof("Loaded %d contacts from %s", len(contacts), cfg.ContactsFile)
			policy.Contacts = contacts
		}
	}

	return policy
}

// loadContactList reads a newline-delimited list of phone numbers. Lines are
// trimmed and blank lines skipped.
func loadContactList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading contact list: %w", err)
	}

	var contacts []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			contacts = append(contacts, line)
		}
	}
	return contacts, nil
}
