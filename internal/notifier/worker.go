package notifier

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"mergington/cmd/buildCFG"
	"mergington/internal/dto"
	"mergington/internal/mailer"
	"mergington/internal/rabbit"
)

// Reader consumes roster-change messages and emails the affected student.
type Reader struct {
	RMQ    *rabbit.Client
	smtp   buildCFG.SMTPConfig
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, smtp buildCFG.SMTPConfig) *Reader {
	return &Reader{
		RMQ:  rmq,
		smtp: smtp,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("roster notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.RosterChangeMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("failed to unmarshal roster change message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Str("activity", msg.Activity).
				Str("email", msg.Email).
				Str("action", msg.Action).
				Msg("received roster change from RabbitMQ")

			if err := mailer.SendRosterEmail(
				&zlog.Logger,
				r.smtp,
				msg.Activity,
				msg.Action,
				msg.Email,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Msg("failed to send roster notification email")
			}

			// Mail failures are not requeued; the roster change itself
			// already committed.
			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("roster notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
