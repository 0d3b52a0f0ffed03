// internal/types/models.go
package types

import (
	"strings"
	"time"
)

const (
	EventMessageCreated = "message_created"
	MessageTypeIncoming = "incoming"
	MessageTypeOutgoing = "outgoing"
)

// ConversationIDSource names the payload field a conversation id came from.
type ConversationIDSource string

const (
	ConversationIDNone      ConversationIDSource = ""
	ConversationIDPrimary   ConversationIDSource = "id"
	ConversationIDDisplayID ConversationIDSource = "display_id"
)

type InboundEvent struct {
	EventType            string               `json:"event_type"`
	MessageType          string               `json:"message_type"`
	AccountID            ID                   `json:"account_id"`
	ConversationID       ID                   `json:"conversation_id"`
	ConversationIDSource ConversationIDSource `json:"conversation_id_source,omitempty"`
	InboxID              ID                   `json:"inbox_id"`
	Text                 string               `json:"text"`
}

// IsIncomingMessage reports whether the event is a newly created message
// sent by a contact.
func (e *InboundEvent) IsIncomingMessage() bool {
	return e.EventType == EventMessageCreated && e.MessageType == MessageTypeIncoming
}

type TaskStatus string

const (
	TaskQueued    TaskStatus = "queued"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskUnknown   TaskStatus = "unknown"
)

// Kind folds a raw status into one of the known statuses, case-insensitively.
func (s TaskStatus) Kind() TaskStatus {
	switch TaskStatus(strings.ToLower(string(s))) {
	case TaskQueued:
		return TaskQueued
	case TaskRunning:
		return TaskRunning
	case TaskCompleted:
		return TaskCompleted
	case TaskFailed:
		return TaskFailed
	default:
		return TaskUnknown
	}
}

// TaskRecord is a read-only view of a task document in the record store.
// Status keeps the stored spelling.
type TaskRecord struct {
	TaskID      string     `json:"task_id"`
	Status      TaskStatus `json:"status"`
	MarketType  string     `json:"market_type"`
	Ticker      string     `json:"ticker"`
	ReportURL   string     `json:"report_url,omitempty"`
	CreatedTime *time.Time `json:"created_time,omitempty"`
}

type OutgoingReply struct {
	AccountID      ID     `json:"account_id"`
	ConversationID ID     `json:"conversation_id"`
	Text           string `json:"text"`
	Private        bool   `json:"private"`
}
