// Package bot answers chat commands: it routes an inbound event, checks
// that a reply can be delivered, renders the reply and sends it.
package bot

import (
	"context"
	"fmt"

	"github.com/user/wootbridge/internal/command"
	"github.com/user/wootbridge/internal/logging"
	"github.com/user/wootbridge/internal/report"
	"github.com/user/wootbridge/internal/types"
)

// Status is the outcome reported back to the webhook caller.
type Status string

const (
	StatusOK      Status = "ok"
	StatusIgnored Status = "ignored"
	StatusError   Status = "error"
)

// Result is the tagged outcome of handling one event.
type Result struct {
	Status        Status
	Command       command.Kind
	Reason        string
	InboxID       types.ID
	SentMessageID types.ID
	// Reply is the text that was sent, if any.
	Reply string
}

// Options wires a Dispatcher.
type Options struct {
	// InboxID restricts handling to one inbox when set.
	InboxID string
	// HasToken reports whether messaging credentials are configured.
	HasToken bool
	Sender   types.ReplySender
	Tasks    types.TaskStore
}

// Dispatcher is stateless across requests.
type Dispatcher struct {
	router   *command.Router
	hasToken bool
	sender   types.ReplySender
	tasks    types.TaskStore
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	return &Dispatcher{
		router:   command.NewRouter(opts.InboxID),
		hasToken: opts.HasToken,
		sender:   opts.Sender,
		tasks:    opts.Tasks,
	}
}

// Handle processes one event. Ignored events and delivered replies return a
// Result; configuration and delivery failures return a go-errors error
// carrying the HTTP status to report.
func (d *Dispatcher) Handle(ctx context.Context, ev types.InboundEvent) (*Result, error) {
	log := logging.From(ctx)

	cmd := d.router.Route(ev)
	if !cmd.Replies() {
		res := &Result{Status: StatusIgnored, Command: cmd.Kind, Reason: cmd.Reason}
		if cmd.Reason == command.ReasonInboxNotAllowed {
			res.InboxID = ev.InboxID
		}
		log.Debug("event ignored",
			"event", ev.EventType,
			"message_type", ev.MessageType,
			"reason", cmd.Reason,
		)
		return res, nil
	}

	if !d.hasToken || !ev.AccountID.Usable() || !ev.ConversationID.Usable() {
		log.Warn("cannot reply, missing token or ids",
			"has_token", d.hasToken,
			"account_id", ev.AccountID,
			"conversation_id", ev.ConversationID,
		)
		return nil, configurationError(map[string]any{
			"has_token":       d.hasToken,
			"account_id":      ev.AccountID,
			"conversation_id": ev.ConversationID,
		})
	}
	if ev.ConversationIDSource == types.ConversationIDDisplayID {
		log.Warn("replying with conversation display_id, API may reject it",
			"conversation_id", ev.ConversationID,
		)
	}

	text := d.render(ctx, cmd)

	id, err := d.sender.Send(ctx, types.OutgoingReply{
		AccountID:      ev.AccountID,
		ConversationID: ev.ConversationID,
		Text:           text,
		Private:        false,
	})
	if err != nil {
		log.Error("reply delivery failed",
			"command", cmd.Kind,
			"account_id", ev.AccountID,
			"conversation_id", ev.ConversationID,
			"error", err,
		)
		return nil, deliveryError(err)
	}

	log.Info("reply sent",
		"command", cmd.Kind,
		"conversation_id", ev.ConversationID,
		"message_id", id,
	)
	return &Result{
		Status:        StatusOK,
		Command:       cmd.Kind,
		SentMessageID: id,
		Reply:         text,
	}, nil
}

// Reply renders the text a replying command would send, without sending it.
func (d *Dispatcher) Reply(ctx context.Context, cmd command.Command) string {
	if !cmd.Replies() {
		return ""
	}
	return d.render(ctx, cmd)
}

func (d *Dispatcher) render(ctx context.Context, cmd command.Command) string {
	switch {
	case cmd.Kind == command.KindStart:
		return report.WelcomeText
	case cmd.MissingArgument:
		return report.UsageText
	case !cmd.ValidEmail():
		return report.InvalidEmailText
	}

	records, err := d.lookup(ctx, cmd.Email)
	if err != nil {
		logging.From(ctx).Error("task lookup failed", "error", lookupError(err))
		return report.LookupFailed(cmd.Email, err)
	}
	return report.Tasks(cmd.Email, records)
}

// lookup runs one query on a connection opened for this call only.
func (d *Dispatcher) lookup(ctx context.Context, email string) ([]types.TaskRecord, error) {
	if d.tasks == nil {
		return nil, fmt.Errorf("record store not configured")
	}
	conn, err := d.tasks.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := conn.Close(ctx); err != nil {
			logging.From(ctx).Debug("closing task store connection", "error", err)
		}
	}()
	return conn.FindByEmail(ctx, email, report.MaxRecords)
}
