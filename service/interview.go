package service

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nakamauwu/hireloop/types"
)

const (
	meetCodeAlphabet = "abcdefghijklmnopqrstuvwxyz"
	zoomIDAlphabet   = "0123456789"
)

// ScheduleInterview appends an interview message in the scheduled status.
// Without a meeting link one is synthesized for the provider.
func (svc *Service) ScheduleInterview(ctx context.Context, in types.ScheduleInterview) (types.Message, error) {
	var out types.Message

	caller, err := svc.caller(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	in.SetLoggedInUserID(caller.ID)

	if in.MeetingLink == "" {
		in.MeetingLink, err = meetingLink(in.Provider)
		if err != nil {
			return out, err
		}
	}

	interview := in.Interview()
	out, err = svc.Cockroach.AppendMessage(ctx, types.Message{
		ConversationID: in.ConversationID,
		SenderID:       caller.ID,
		Kind:           types.MessageKindInterview,
		Text:           types.InterviewScheduledText,
		Interview:      &interview,
	})
	if err != nil {
		return out, err
	}

	svc.Metrics.MessagesAppended.WithLabelValues(string(out.Kind)).Inc()
	svc.publishMessageEvent(types.MessageEventCreated, caller.ID, out)

	return out, nil
}

// UpdateInterviewStatus moves an interview to any of its statuses.
// Either participant may do it; read state is left untouched.
func (svc *Service) UpdateInterviewStatus(ctx context.Context, in types.UpdateInterviewStatus) (types.Message, error) {
	var out types.Message

	caller, err := svc.caller(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	in.SetLoggedInUserID(caller.ID)

	out, err = svc.Cockroach.UpdateInterviewStatus(ctx, in)
	if err != nil {
		return out, err
	}

	svc.Metrics.InterviewStatusChanges.WithLabelValues(string(in.Status)).Inc()
	svc.publishMessageEvent(types.MessageEventInterviewStatus, caller.ID, out)

	return out, nil
}

// meetingLink makes up a room link in the provider format.
// No meeting is provisioned with the provider.
func meetingLink(provider types.MeetingProvider) (string, error) {
	switch provider {
	case types.MeetingProviderGoogleMeet:
		code, err := gonanoid.Generate(meetCodeAlphabet, 10)
		if err != nil {
			return "", fmt.Errorf("could not generate meet code: %w", err)
		}
		return "https://meet.google.com/" + code[:3] + "-" + code[3:7] + "-" + code[7:], nil
	case types.MeetingProviderZoom:
		id, err := gonanoid.Generate(zoomIDAlphabet, 10)
		if err != nil {
			return "", fmt.Errorf("could not generate zoom meeting id: %w", err)
		}
		return "https://zoom.us/j/" + id, nil
	}
	return "", nil
}
