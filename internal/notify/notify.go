// Package notify accumulates a per-request run log and mails it to the
// operator once the request settles, on success and on failure alike.
package notify

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fxbridge/fxbridge-api/internal/types"
)

// Mailer is the mail transport contract
type Mailer interface {
	Send(ctx context.Context, subject, body string) (int, error)
}

// Manager sends the accumulated run log out of band
type Manager struct {
	mailer Mailer
	logger zerolog.Logger
}

// NewManager creates a notification manager around the given transport
func NewManager(mailer Mailer) *Manager {
	return &Manager{
		mailer: mailer,
		logger: log.With().Str("component", "notify").Logger(),
	}
}

// Notify mails the run log with the given subject. The delivery status
// line is appended to the log afterwards so the HTTP response shows it.
// A transport failure comes back as a NotificationError; the caller must
// not let it replace the outcome being reported.
func (m *Manager) Notify(ctx context.Context, subject string, runLog *RunLog) error {
	status, err := m.mailer.Send(ctx, subject, runLog.String())
	if err != nil {
		m.logger.Warn().Err(err).Str("subject", subject).Msg("could not deliver notification")
		runLog.Add("Could not mail you this log: %v", err)
		return &types.NotificationError{StatusCode: status, Err: err}
	}

	m.logger.Info().Str("subject", subject).Int("status", status).Msg("notification delivered")
	runLog.Add("I also mailed you this log. The mail service replied with status code %d.", status)
	return nil
}
