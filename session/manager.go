package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/exporter"
	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
	"github.com/ricardojlrufino/whatsapp-history-exporter/namecache"
)

// ErrLoggedOut is returned by Run when the device is logged out remotely.
// Logout is terminal; no reconnect is attempted.
var ErrLoggedOut = errors.New("session logged out")

// Manager owns the protocol connection. It feeds message and history events
// into the ingestion pipeline and re-establishes the connection on
// recoverable disconnects according to the reconnect policy. Credential
// updates are persisted by the underlying device store; the manager does not
// reinterpret them.
type Manager struct {
	client    *whatsmeow.Client
	pipeline  *exporter.Pipeline
	names     *namecache.Cache
	reconnect ReconnectPolicy
	log       waLog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewManager builds the manager around the first device of the session
// store, registering the event handler. Reconnection is managed here, so
// the client's own auto-reconnect is disabled.
func NewManager(container *sqlstore.Container, pipeline *exporter.Pipeline, names *namecache.Cache, reconnect ReconnectPolicy, log waLog.Logger) (*Manager, error) {
	device, err := container.GetFirstDevice()
	if err != nil {
		return nil, fmt.Errorf("getting device from session store: %w", err)
	}

	client := whatsmeow.NewClient(device, log.Sub("Client"))
	client.EnableAutoReconnect = false

	m := &Manager{
		client:    client,
		pipeline:  pipeline,
		names:     names,
		reconnect: reconnect,
		log:       log,
		done:      make(chan struct{}),
	}
	client.AddEventHandler(m.handleEvent)

	return m, nil
}

// IsConnected reports whether the protocol connection is up.
func (m *Manager) IsConnected() bool {
	return m.client.IsConnected()
}

// Run connects (pairing with a QR code when no device is registered) and
// blocks until the context is cancelled or the session is logged out.
func (m *Manager) Run(ctx context.Context) error {
	if m.client.Store.ID == nil {
		if err := m.pair(ctx); err != nil {
			return err
		}
	} else {
		m.log.Infof("Registered as %s", m.client.Store.ID)
		if err := m.client.Connect(); err != nil {
			return fmt.Errorf("connecting: %w", err)
		}
	}

	select {
	case <-ctx.Done():
		m.shutdown()
		return ctx.Err()
	case <-m.done:
		m.client.Disconnect()
		return ErrLoggedOut
	}
}

// pair shows the QR code in the terminal and waits for the device link.
func (m *Manager) pair(ctx context.Context) error {
	qrChan, err := m.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("getting QR channel: %w", err)
	}
	if err := m.client.Connect(); err != nil {
		return fmt.Errorf("connecting: %w", err)
	}

	for evt := range qrChan {
		if evt.Event == "code" {
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			m.log.Infof("Scan the QR code with WhatsApp on your phone")
		} else {
			m.log.Infof("QR channel event: %s", evt.Event)
		}
	}
	return nil
}

func (m *Manager) shutdown() {
	m.closeOnce.Do(func() { close(m.done) })
	m.client.Disconnect()
}

func (m *Manager) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.HistorySync:
		m.handleHistorySync(v)

	case *events.Message:
		m.pipeline.HandleLiveBatch([]exporter.Incoming{m.incoming(v)})

	case *events.PushName:
		if err := m.names.Put(v.JID.String(), v.NewPushName); err != nil {
			m.log.Warnf("Failed to cache push name for %s: %v", v.JID, err)
		}

	case *events.JoinedGroup:
		if err := m.names.Put(v.JID.String(), v.GroupName.Name); err != nil {
			m.log.Warnf("Failed to cache group name for %s: %v", v.JID, err)
		}

	case *events.PairSuccess:
		m.log.Infof("Device paired: %s", v.ID)

	case *events.Connected:
		m.log.Infof("Connected to WhatsApp")

	case *events.LoggedOut:
		m.log.Warnf("Device logged out (reason %v), not reconnecting", v.Reason)
		m.closeOnce.Do(func() { close(m.done) })

	case *events.Disconnected:
		m.log.Warnf("Connection closed, attempting to reconnect")
		go m.reconnectLoop()
	}
}

// incoming binds the media fetch hook of one live event to its envelope.
// The fetch captures the underlying protocol message because only it carries
// the media keys needed for the download.
func (m *Manager) incoming(v *events.Message) exporter.Incoming {
	env := exporter.FromEvent(v)
	raw := v.Message
	fetch := func(*models.MessageEnvelope) ([]byte, error) {
		return m.client.DownloadAny(raw)
	}
	return exporter.Incoming{Envelope: env, Fetch: fetch}
}

// handleHistorySync unpacks one history delivery into envelope and
// conversation-metadata batches and hands them to the pipeline.
func (m *Manager) handleHistorySync(v *events.HistorySync) {
	var batch []exporter.Incoming
	var chats []models.Chat

	for _, conv := range v.Data.GetConversations() {
		jid, err := types.ParseJID(conv.GetID())
		if err != nil {
			m.log.Warnf("Skipping conversation with invalid JID %q: %v", conv.GetID(), err)
			continue
		}

		chats = append(chats, models.Chat{
			ID:              jid.String(),
			Name:            m.chatName(jid, conv.GetName()),
			IsGroup:         jid.Server == types.GroupServer,
			LastMessageTime: int64(conv.GetConversationTimestamp()),
			UnreadCount:     conv.GetUnreadCount(),
		})

		for _, histMsg := range conv.GetMessages() {
			evt, err := m.client.ParseWebMessage(jid, histMsg.GetMessage())
			if err != nil {
				m.log.Warnf("Skipping unparseable history message in %s: %v", jid, err)
				continue
			}
			batch = append(batch, m.incoming(evt))
		}
	}

	m.pipeline.HandleHistoryBatch(batch, chats)
}

// chatName resolves a display name for the conversation, preferring the name
// delivered with the sync, then the cache, then the bare identifier.
func (m *Manager) chatName(jid types.JID, delivered string) string {
	if delivered != "" {
		if err := m.names.Put(jid.String(), delivered); err != nil {
			m.log.Warnf("Failed to cache name for %s: %v", jid, err)
		}
		return delivered
	}
	if cached, ok := m.names.Get(jid.String()); ok {
		return cached
	}
	return jid.User
}
