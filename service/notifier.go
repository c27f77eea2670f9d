package service

import (
	"context"
	"fmt"

	"github.com/nakamauwu/hireloop/mailing"
	"github.com/nakamauwu/hireloop/types"
	"github.com/vmihailenco/msgpack/v5"
)

// RunNotifier mails an invitation to the other participant
// of every interview scheduled until ctx is done.
func (svc *Service) RunNotifier(ctx context.Context) error {
	unsub, err := svc.PubSub.Sub(allMessagesTopic, func(data []byte) {
		var ev types.MessageEvent
		if err := msgpack.Unmarshal(data, &ev); err != nil {
			_ = svc.Logger.Log("error", fmt.Errorf("could not msgpack decode message event: %w", err))
			return
		}

		if ev.Type != types.MessageEventCreated || ev.Message.Kind != types.MessageKindInterview || ev.Message.Interview == nil {
			return
		}

		svc.background(func(ctx context.Context) error {
			return svc.sendInterviewInvitation(ctx, ev)
		})
	})
	if err != nil {
		return fmt.Errorf("could not subscribe to message events: %w", err)
	}

	<-ctx.Done()

	if err := unsub(); err != nil {
		return fmt.Errorf("could not unsubscribe from message events: %w", err)
	}

	return nil
}

func (svc *Service) sendInterviewInvitation(ctx context.Context, ev types.MessageEvent) error {
	in := types.RetrieveConversation{ConversationID: ev.Message.ConversationID}
	in.SetLoggedInUserID(ev.ActorID)

	conversation, err := svc.Cockroach.Conversation(ctx, in)
	if err != nil {
		return fmt.Errorf("could not fetch interview conversation: %w", err)
	}

	recipient, err := svc.Users.User(ctx, conversation.OtherParticipant(ev.ActorID))
	if err != nil {
		return fmt.Errorf("could not fetch interview recipient: %w", err)
	}

	if recipient.Email == "" {
		return nil
	}

	organizer, err := svc.Users.User(ctx, ev.ActorID)
	if err != nil {
		return fmt.Errorf("could not fetch interview organizer: %w", err)
	}

	inv := mailing.InterviewInvitation{
		RecipientName:   recipient.Name,
		OrganizerName:   organizer.Name,
		ScheduledAt:     ev.Message.Interview.ScheduledAt,
		Duration:        ev.Message.Interview.Duration(),
		MeetingLink:     ev.Message.Interview.MeetingLink,
		Notes:           ev.Message.Interview.Notes,
		ConversationURL: svc.Origin.JoinPath("conversations", conversation.ID).String(),
	}

	if conversation.JobID != nil {
		if job, err := svc.Jobs.Job(ctx, *conversation.JobID); err == nil {
			inv.JobTitle = job.Title
		}
	}

	subject, html, text, err := inv.Render()
	if err != nil {
		return err
	}

	err = svc.Sender.Send(ctx, mailing.Message{
		To:      recipient.Email,
		Subject: subject,
		HTML:    html,
		Text:    text,
		ReplyTo: organizer.Email,
		Tags: map[string]string{
			"kind":         "interview_invitation",
			"conversation": conversation.ID,
		},
	})
	if err != nil {
		svc.Metrics.InvitationsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("could not send interview invitation: %w", err)
	}

	svc.Metrics.InvitationsSent.WithLabelValues("sent").Inc()

	return nil
}
