// Package telegram is a send-only adapter for operator alerts. It never
// polls for updates; the bot exists purely as an outbound channel.
package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"mender/pkg/logx"
)

type Config struct {
	Token    string
	ChatID   int64
	ThreadID int
}

type Adapter struct {
	cfg Config
	log logx.Logger
	bot *tele.Bot
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is empty")
	}
	// No Poller: this bot never receives, it only sends.
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, err
	}
	return &Adapter{cfg: cfg, log: log, bot: b}, nil
}

// SendText implements notify.Sender.
func (a *Adapter) SendText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	opts := &tele.SendOptions{
		DisableWebPagePreview: true,
		ThreadID:              a.cfg.ThreadID,
	}

	done := make(chan error, 1)
	go func() {
		_, err := a.bot.Send(tele.ChatID(a.cfg.ChatID), text, opts)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			a.log.Debug("telegram send failed", logx.Err(err), logx.Int64("chat_id", a.cfg.ChatID))
		}
		return err
	}
}

// Close is a no-op today; kept so callers can treat adapters uniformly.
func (a *Adapter) Close(_ time.Duration) error { return nil }
