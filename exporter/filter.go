package exporter

import (
	"strings"

	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

// groupDomainMarker appears in the domain part of group conversation JIDs
// (for example 1234567-890@g.us).
const groupDomainMarker = "@g"

// areaCodePrefixLen is the number of leading digits stripped from a phone
// number before matching it against the contact allow-list.
const areaCodePrefixLen = 2

// ShouldKeep decides whether an envelope survives the sync policy. Rules are
// applied in order and short-circuit on the first failure. An envelope
// without a conversation identifier is always discarded.
func ShouldKeep(env *models.MessageEnvelope, policy models.SyncPolicy, log waLog.Logger) bool {
	jid := env.Key.RemoteJID
	if jid == "" {
		return false
	}

	if len(policy.MessageTypes) > 0 {
		kind := env.Kind()
		if kind == models.KindUnknown || !contains(policy.MessageTypes, kind.String()) {
			return false
		}
	}

	if !policy.IncludeGroups && strings.Contains(jid, groupDomainMarker) {
		return false
	}

	if len(policy.Contacts) > 0 {
		phone := jid
		if i := strings.Index(phone, "@"); i >= 0 {
			phone = phone[:i]
		}
		local := phone
		if len(local) > areaCodePrefixLen {
			local = local[areaCodePrefixLen:]
		}
		if !contains(policy.Contacts, local) {
			log.Infof("Ignoring contact: %s", phone)
			return false
		}
	}

	return true
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
