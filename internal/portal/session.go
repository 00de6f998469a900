package portal

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cpaas-portal/internal/forms"
	"cpaas-portal/internal/notify"
	"cpaas-portal/internal/theme"
	"cpaas-portal/pkg/models"
)

var ErrSessionExpired = errors.New(SessionExpiredMessage)

// Session is everything a screen needs to know about the signed-in admin.
// It is loaded once and passed explicitly to forms, importer and listings.
type Session struct {
	Client  *Client
	User    models.User
	Company *models.Company
	Theme   theme.Theme
}

// LoadSession fetches the current admin. A refused token yields
// ErrSessionExpired.
func LoadSession(ctx context.Context, client *Client) (*Session, error) {
	user, err := client.Users.Me(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	return &Session{
		Client:  client,
		User:    *user,
		Company: user.Company,
		Theme:   theme.FromCompany(user.Company),
	}, nil
}

// Channels returns the company's integrated channels.
func (s *Session) Channels() []models.IntegratedChannel {
	if s.Company == nil {
		return nil
	}
	return s.Company.IntegratedChannels
}

// ChannelID resolves the integrated channel id for channelType.
func (s *Session) ChannelID(channelType string) (string, bool) {
	return s.Company.ChannelID(channelType)
}

func (s *Session) HasTool(toolType string) bool {
	return s.Company.HasTool(toolType)
}

// Modal returns a form submitter bound to this session.
func (s *Session) Modal(n notify.Notifier, logger *zap.Logger) *forms.Modal {
	return &forms.Modal{
		Caller:   s.Client.Caller(),
		Token:    s.Client.Token(),
		Notifier: n,
		Logger:   logger,
	}
}

// Reload refreshes user and company after a settings change.
func (s *Session) Reload(ctx context.Context) error {
	fresh, err := LoadSession(ctx, s.Client)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}
