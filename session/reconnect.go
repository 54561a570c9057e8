package session

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ricardojlrufino/whatsapp-history-exporter/utils"
)

// ReconnectPolicy bounds how the manager re-establishes a dropped
// connection. MaxAttempts of zero retries forever, which matches the
// long-running archiver default; the interval grows exponentially up to
// MaxInterval either way.
type ReconnectPolicy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultReconnectPolicy retries forever, starting at two seconds.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		InitialInterval: 2 * time.Second,
		MaxInterval:     time.Minute,
	}
}

// ReconnectPolicyFromConfig maps session configuration onto a policy,
// falling back to defaults for unset values.
func ReconnectPolicyFromConfig(cfg utils.SessionConfig) ReconnectPolicy {
	policy := DefaultReconnectPolicy()
	policy.MaxAttempts = cfg.MaxReconnectAttempts
	if cfg.ReconnectIntervalSeconds > 0 {
		policy.InitialInterval = time.Duration(cfg.ReconnectIntervalSeconds) * time.Second
	}
	return policy
}

// newBackOff builds the retry schedule for one reconnect episode.
func newBackOff(policy ReconnectPolicy) backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = policy.InitialInterval
	expo.MaxInterval = policy.MaxInterval
	expo.MaxElapsedTime = 0

	if policy.MaxAttempts > 0 {
		return backoff.WithMaxRetries(expo, policy.MaxAttempts)
	}
	return expo
}

// reconnectLoop retries Connect until it succeeds, the policy gives up, or
// the session turns terminal.
func (m *Manager) reconnectLoop() {
	attempt := 0
	err := backoff.Retry(func() error {
		select {
		case <-m.done:
			return backoff.Permanent(ErrLoggedOut)
		default:
		}
		attempt++
		m.log.Infof("Reconnect attempt %d", attempt)
		return m.client.Connect()
	}, newBackOff(m.reconnect))

	if err != nil {
		m.log.Errorf("Reconnect gave up: %v", err)
		m.closeOnce.Do(func() { close(m.done) })
	}
}
