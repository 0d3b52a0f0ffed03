// Package chatwoot turns loosely shaped Chatwoot webhook payloads into
// normalized inbound events.
package chatwoot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/wootbridge/internal/types"
)

// DecodePayload parses a webhook body into a generic object. Numbers are
// kept as json.Number so identifiers survive unchanged.
func DecodePayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("decode payload: not a JSON object")
	}
	return payload, nil
}

// Normalize extracts an InboundEvent from a webhook payload. It never fails;
// missing or mistyped fields are left absent.
//
// Fallback order:
//
//	conversation_id: conversation.id, conversation.display_id (zero counts as absent)
//	account_id:      account.id
//	inbox_id:        conversation.inbox_id, inbox.id
//	text:            content, trimmed
func Normalize(payload map[string]any) types.InboundEvent {
	conversation := object(payload, "conversation")
	account := object(payload, "account")
	inbox := object(payload, "inbox")

	ev := types.InboundEvent{
		EventType:   str(payload, "event"),
		MessageType: str(payload, "message_type"),
		AccountID:   types.IDFromValue(account["id"]),
		Text:        strings.TrimSpace(str(payload, "content")),
	}

	if id := types.IDFromValue(conversation["id"]); id.Usable() {
		ev.ConversationID = id
		ev.ConversationIDSource = types.ConversationIDPrimary
	} else if id := types.IDFromValue(conversation["display_id"]); id.Usable() {
		ev.ConversationID = id
		ev.ConversationIDSource = types.ConversationIDDisplayID
	}

	ev.InboxID = types.IDFromValue(conversation["inbox_id"])
	if !ev.InboxID.Present() {
		ev.InboxID = types.IDFromValue(inbox["id"])
	}
	return ev
}

func object(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
