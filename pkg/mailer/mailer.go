package mailer

import (
	"context"

	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

// Mailer is the outbound delivery collaborator. Actual delivery lives outside
// this service; the reset flow only needs a send surface.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer records reset deliveries to the structured log. Used in dev and
// as the default until a delivery backend is wired.
type LogMailer struct {
	logg *logger.Logger
}

func NewLogMailer(logg *logger.Logger) *LogMailer {
	return &LogMailer{logg: logg}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	if m.logg != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{
			"email":     email,
			"token_len": len(token),
		})
		m.logg.Info(ctx, "mailer.password_reset.queued")
	}
	return nil
}
