// Package command classifies chat text into the commands the bot answers.
package command

import (
	"regexp"
	"strings"

	"github.com/user/wootbridge/internal/types"
)

// Kind tags a Command.
type Kind string

const (
	KindIgnored      Kind = "ignored"
	KindUnrecognized Kind = "unrecognized"
	KindStart        Kind = "start"
	KindQuery        Kind = "query"
)

const (
	ReasonInboxNotAllowed     = "inbox_not_allowed"
	ReasonUnrecognizedCommand = "unrecognized_command"
)

const (
	startKeyword = "/start"
	queryKeyword = "/query"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Command is the routed form of one inbound event.
type Command struct {
	Kind Kind
	// Reason is set for ignored events that were filtered out on purpose.
	Reason string
	// Email is the raw /query argument.
	Email string
	// MissingArgument is set for a bare /query.
	MissingArgument bool
}

// Replies reports whether the command produces a chat reply.
func (c Command) Replies() bool {
	return c.Kind == KindStart || c.Kind == KindQuery
}

// ValidEmail reports whether the /query argument has a local@domain.tld shape.
func (c Command) ValidEmail() bool {
	return emailPattern.MatchString(c.Email)
}

// Router routes events, optionally restricted to a single inbox.
type Router struct {
	inboxID string
}

// NewRouter creates a Router. An empty inboxID disables the inbox filter.
func NewRouter(inboxID string) *Router {
	return &Router{inboxID: strings.TrimSpace(inboxID)}
}

// Route classifies an event. Only incoming message_created events are
// considered; the inbox filter is applied after that check.
func (r *Router) Route(ev types.InboundEvent) Command {
	if !ev.IsIncomingMessage() {
		return Command{Kind: KindIgnored}
	}
	if r.inboxID != "" && ev.InboxID.Present() && ev.InboxID.String() != r.inboxID {
		return Command{Kind: KindIgnored, Reason: ReasonInboxNotAllowed}
	}
	return Parse(ev.Text)
}

// Parse classifies trimmed message text.
func Parse(text string) Command {
	text = strings.TrimSpace(text)
	if text == startKeyword {
		return Command{Kind: KindStart}
	}
	if len(text) >= len(queryKeyword) && strings.EqualFold(text[:len(queryKeyword)], queryKeyword) {
		parts := strings.Fields(text)
		if len(parts) < 2 {
			return Command{Kind: KindQuery, MissingArgument: true}
		}
		// Everything after the first whitespace run is the argument.
		return Command{Kind: KindQuery, Email: strings.TrimSpace(text[len(parts[0]):])}
	}
	return Command{Kind: KindUnrecognized, Reason: ReasonUnrecognizedCommand}
}
