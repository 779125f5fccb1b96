package adminbot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/notify"
	"github.com/spec-kit/lead-service/internal/observability"
	"github.com/spec-kit/lead-service/internal/telegram"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// LeadSource answers lead queries, either in-process or over HTTP.
type LeadSource interface {
	Leads(ctx context.Context, period domain.Period, limit int) ([]domain.Lead, error)
}

// Transport fetches updates and routes them to registered handlers.
type Transport interface {
	Updates(ctx context.Context, offset int, timeout time.Duration) ([]tele.Update, error)
	Handle(endpoint interface{}, h tele.HandlerFunc)
	Process(u tele.Update)
}

// Options tune the poll loop and replies.
type Options struct {
	PollTimeout time.Duration
	RetryDelay  time.Duration
	Limit       int
	Location    *time.Location
}

// Bot answers admin lead queries over a long-poll loop. It is not safe to Run twice.
type Bot struct {
	transport Transport
	source    LeadSource
	opts      Options
	metrics   *observability.Metrics
	logger    *zap.Logger

	mu        sync.RWMutex
	lastFetch error
}

// New builds the bot. Its text handler is registered on transport by Run.
func New(transport Transport, source LeadSource, opts Options, metrics *observability.Metrics, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 3 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	b := &Bot{
		transport: transport,
		source:    source,
		opts:      opts,
		metrics:   metrics,
		logger:    logger,
	}
	return b
}

// Run polls for updates until ctx is cancelled. The cursor lives only for the
// duration of the call.
func (b *Bot) Run(ctx context.Context) error {
	b.transport.Handle(tele.OnText, func(c tele.Context) error {
		return b.handleText(ctx, c)
	})
	b.logger.Info("admin bot started", zap.Duration("poll_timeout", b.opts.PollTimeout))

	cursor := 0
	for {
		updates, err := b.fetch(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info("admin bot stopped")
				return nil
			}
			return err
		}
		for _, u := range updates {
			cursor = u.ID + 1
			b.process(u)
		}
	}
}

// Healthy reports the outcome of the latest fetch.
func (b *Bot) Healthy(context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastFetch
}

func (b *Bot) fetch(ctx context.Context, cursor int) ([]tele.Update, error) {
	policy := backoff.WithContext(backoff.NewConstantBackOff(b.opts.RetryDelay), ctx)
	return backoff.RetryNotifyWithData(func() ([]tele.Update, error) {
		if err := ctx.Err(); err != nil {
			return nil, backoff.Permanent(err)
		}
		updates, err := b.transport.Updates(ctx, cursor, b.opts.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			fetchErr := &apperrors.TransportFetchError{Offset: cursor, Err: err}
			b.setLastFetch(fetchErr)
			return nil, fetchErr
		}
		b.setLastFetch(nil)
		return updates, nil
	}, policy, func(err error, wait time.Duration) {
		b.metrics.RecordBotFetchError()
		b.logger.Warn("fetching updates failed", zap.Error(err), zap.Duration("retry_in", wait))
	})
}

func (b *Bot) setLastFetch(err error) {
	b.mu.Lock()
	b.lastFetch = err
	b.mu.Unlock()
}

// process routes one update. Edits are answered like new messages; updates
// without text are skipped.
func (b *Bot) process(u tele.Update) {
	if u.Message == nil && u.EditedMessage != nil {
		u.Message, u.EditedMessage = u.EditedMessage, nil
	}
	if u.Message == nil || u.Message.Text == "" {
		return
	}
	b.transport.Process(u)
}

func (b *Bot) handleText(ctx context.Context, c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}

	cmd := resolveCommand(msg.Text)
	b.metrics.RecordBotUpdate(string(cmd))

	switch cmd {
	case CommandStart:
		return c.Send(greetingText, telegram.SendOptions(mainMenu(b.opts.Limit)))
	case CommandUnknown:
		return c.Send(fallbackText, telegram.SendOptions(mainMenu(b.opts.Limit)))
	}

	period, _ := cmd.Period()
	leads, err := b.source.Leads(ctx, period, b.opts.Limit)
	if err != nil {
		b.logger.Error("loading leads failed", zap.String("period", string(period)), zap.Error(err))
		return c.Send(failureText, telegram.SendOptions(nil))
	}

	var errs []error
	for _, chunk := range notify.FormatDigest(leads, b.opts.Location) {
		if err := c.Send(chunk, telegram.SendOptions(nil)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
