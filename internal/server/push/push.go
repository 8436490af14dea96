// Package push delivers push notifications to a user's registered devices.
// The provider (FCM or similar) is an external service behind a small
// interface; delivery is best effort and results are only logged.
package push

import (
	"context"
	"database/sql"

	"github.com/avolkovx/listsync/internal/logging"
	"github.com/avolkovx/listsync/internal/server/repositories/repomanager"
)

// Provider sends one notification to one device token.
type Provider interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

// Service resolves a user's device tokens and pushes to each of them. It
// implements notify.PushSender.
type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	provider    Provider
	logger      logging.Logger
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, provider Provider, logger logging.Logger) *Service {
	return &Service{
		db:          db,
		repomanager: m,
		provider:    provider,
		logger:      logger.With("component", "push"),
	}
}

// SendToUser pushes to every device of the user. Per-device failures are
// logged and do not stop delivery to the remaining devices.
func (s *Service) SendToUser(ctx context.Context, userID, title, body string, data map[string]string) error {
	tokens, err := s.repomanager.Users(s.db).DeviceTokens(ctx, userID)
	if err != nil {
		return err
	}

	for _, token := range tokens {
		if err := s.provider.Send(ctx, token, title, body, data); err != nil {
			s.logger.Warn(ctx, "push send failed", "user_id", userID, "error", err)
		}
	}

	return nil
}

// LogProvider is the default provider: it only logs what would be sent.
// Useful in development and in deployments without push credentials.
type LogProvider struct {
	logger logging.Logger
}

func NewLogProvider(logger logging.Logger) *LogProvider {
	return &LogProvider{logger: logger.With("component", "push-provider")}
}

func (p *LogProvider) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	p.logger.Info(ctx, "push notification", "title", title, "body", body)
	return nil
}
