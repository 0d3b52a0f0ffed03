// internal/delivery/sender.go
package delivery

import (
	"context"
	"fmt"

	"github.com/user/wootbridge/internal/types"
	"github.com/user/wootbridge/pkg/chatwoot"
)

// MessageCreator is the messaging API operation the sender depends on.
type MessageCreator interface {
	CreateOutgoingMessage(ctx context.Context, accountID, conversationID, content string, private bool) (*chatwoot.Message, error)
}

// Sender delivers replies into Chatwoot conversations.
type Sender struct {
	client MessageCreator
}

var _ types.ReplySender = (*Sender)(nil)

// NewSender creates a Sender backed by the given messaging client.
func NewSender(client MessageCreator) *Sender {
	return &Sender{client: client}
}

// Send posts the reply and returns the created message id. Failures are
// returned as-is and never retried.
func (s *Sender) Send(ctx context.Context, reply types.OutgoingReply) (types.ID, error) {
	if !reply.AccountID.Usable() || !reply.ConversationID.Usable() {
		return "", fmt.Errorf("reply target incomplete: account=%q conversation=%q", reply.AccountID, reply.ConversationID)
	}
	msg, err := s.client.CreateOutgoingMessage(ctx, reply.AccountID.String(), reply.ConversationID.String(), reply.Text, reply.Private)
	if err != nil {
		return "", err
	}
	return types.IDFromValue(msg.ID), nil
}
