package service

import (
	"context"
	"fmt"

	"github.com/nakamauwu/hireloop/textutil"
	"github.com/nakamauwu/hireloop/types"
	"github.com/vmihailenco/msgpack/v5"
)

// SendMessage appends a text or file message to a conversation the caller participates in.
// The returned message carries the server assigned ID and timestamp.
func (svc *Service) SendMessage(ctx context.Context, in types.SendMessage) (types.Message, error) {
	var out types.Message

	caller, err := svc.caller(ctx)
	if err != nil {
		return out, err
	}

	if in.Kind == "" || in.Kind == types.MessageKindText {
		in.Text = textutil.ExpandEmoji(textutil.SmartTrim(in.Text))
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	in.SetLoggedInUserID(caller.ID)

	out, err = svc.Cockroach.AppendMessage(ctx, types.Message{
		ConversationID: in.ConversationID,
		SenderID:       caller.ID,
		Kind:           in.Kind,
		Text:           in.Text,
		File:           in.File,
	})
	if err != nil {
		return out, err
	}

	svc.Metrics.MessagesAppended.WithLabelValues(string(out.Kind)).Inc()
	svc.publishMessageEvent(types.MessageEventCreated, caller.ID, out)

	return out, nil
}

// Messages of a conversation in ascending order.
// Without cursors it returns the latest page; Before pages backward and After forward.
// Latest and after pages acknowledge reading the conversation, before pages do not.
func (svc *Service) Messages(ctx context.Context, in types.ListMessages) (types.MessagesPage, error) {
	var out types.MessagesPage

	caller, err := svc.caller(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	in.SetLoggedInUserID(caller.ID)

	out, err = svc.Cockroach.Messages(ctx, in)
	if err != nil {
		return out, err
	}

	if out.ReadAck != nil {
		svc.Metrics.ObserveRead(string(out.Meta.Mode), out.ReadAck.Updated)
	}

	svc.enrichConversations(ctx, caller.ID, &out.Conversation)

	return out, nil
}

func messagesTopic(conversationID string) string {
	return "conversations." + conversationID + ".messages"
}

const allMessagesTopic = "conversations.*.messages"

func (svc *Service) publishMessageEvent(typ types.MessageEventType, actorID string, msg types.Message) {
	b, err := msgpack.Marshal(types.MessageEvent{
		Type:    typ,
		ActorID: actorID,
		Message: msg,
	})
	if err != nil {
		_ = svc.Logger.Log("error", fmt.Errorf("could not msgpack encode message event: %w", err))
		return
	}

	if err := svc.PubSub.Pub(messagesTopic(msg.ConversationID), b); err != nil {
		_ = svc.Logger.Log("error", fmt.Errorf("could not publish message event: %w", err))
	}
}
