package services

import (
	"context"
	"fmt"

	"github.com/j-veylop/biliinsight-tui/internal/bilibili"
	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/services/login"
)

// LoginAttempt is one QR code and the poller tracking it.
type LoginAttempt struct {
	QRCode *bilibili.QRCode
	Poller *login.Poller
}

// StartLogin issues a new QR code.
func (m *Manager) StartLogin(ctx context.Context) (*LoginAttempt, error) {
	qr, err := m.client.GenerateQRCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate login code: %w", err)
	}
	return &LoginAttempt{
		QRCode: qr,
		Poller: login.NewPoller(m.client, qr.Key, m.cfg.RequestTimeout),
	}, nil
}

// PollLogin polls the attempt once and returns its state.
func (m *Manager) PollLogin(ctx context.Context, attempt *LoginAttempt) login.State {
	return attempt.Poller.Poll(ctx)
}

// CompleteLogin stores a confirmed session together with its account info.
// Subscribers learn about it through SessionChangedEvent.
func (m *Manager) CompleteLogin(ctx context.Context, sess models.Session) (*models.UserInfo, error) {
	user, err := m.client.UserInfo(ctx, sess)
	if err != nil {
		logger.Warn("could not load account after login", "error", err)
	}

	if err := m.sessions.Save(sess, user); err != nil {
		return nil, err
	}

	name := "your account"
	if user != nil && user.UName != "" {
		name = user.UName
	}
	logger.Info("logged in", "mid", sess.MID)
	m.notify("Logged in", fmt.Sprintf("Signed in as %s.", name))

	return user, nil
}

// Logout forgets the session. Cached history stays on disk.
func (m *Manager) Logout() error {
	if err := m.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	logger.Info("logged out")
	return nil
}
