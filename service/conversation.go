package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
	"golang.org/x/sync/errgroup"
)

const enrichConcurrency = 8

var ErrParticipantCannotChat = errs.InvalidArgumentError("user cannot take part in conversations")

// GetOrCreateConversation with another user, optionally scoped to a job.
// Calls with the participants swapped resolve to the same conversation.
func (svc *Service) GetOrCreateConversation(ctx context.Context, in types.GetOrCreateConversation) (types.Conversation, error) {
	var out types.Conversation

	caller, err := svc.caller(ctx)
	if err != nil {
		return out, err
	}

	in.SetLoggedInUserID(caller.ID)

	if err := in.Validate(); err != nil {
		return out, err
	}

	other, err := svc.Users.User(ctx, in.OtherUserID)
	if err != nil {
		return out, err
	}

	if !other.Role.CanChat() {
		return out, ErrParticipantCannotChat
	}

	out, created, err := svc.Cockroach.GetOrCreateConversation(ctx, in)
	if err != nil {
		return out, err
	}

	if created {
		svc.Metrics.ConversationsCreated.Inc()
	}

	svc.enrichConversations(ctx, caller.ID, &out)

	return out, nil
}

// Conversation the caller participates in.
func (svc *Service) Conversation(ctx context.Context, in types.RetrieveConversation) (types.Conversation, error) {
	var out types.Conversation

	caller, err := svc.caller(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	in.SetLoggedInUserID(caller.ID)

	out, err = svc.Cockroach.Conversation(ctx, in)
	if err != nil {
		return out, err
	}

	svc.enrichConversations(ctx, caller.ID, &out)

	return out, nil
}

// Conversations of the caller sorted by most recent activity,
// each annotated with the caller unread count.
func (svc *Service) Conversations(ctx context.Context, in types.ListConversations) ([]types.Conversation, error) {
	caller, err := svc.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	in.SetLoggedInUserID(caller.ID)

	out, err := svc.Cockroach.Conversations(ctx, in)
	if err != nil {
		return nil, err
	}

	cc := make([]*types.Conversation, len(out))
	for i := range out {
		cc[i] = &out[i]
	}
	svc.enrichConversations(ctx, caller.ID, cc...)

	return out, nil
}

// MarkConversationRead acknowledges the caller read the whole conversation.
// Repeating it without new messages in between is a no-op.
func (svc *Service) MarkConversationRead(ctx context.Context, in types.MarkConversationRead) (types.ReadAck, error) {
	var out types.ReadAck

	caller, err := svc.caller(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	in.SetLoggedInUserID(caller.ID)

	out, err = svc.Cockroach.MarkConversationRead(ctx, in)
	if err != nil {
		return out, err
	}

	svc.Metrics.ObserveRead("explicit", out.Updated)

	return out, nil
}

// enrichConversations annotates conversations for the viewer
// and attaches participant and job display data.
// Display data is best effort: lookups that fail are logged and skipped.
func (svc *Service) enrichConversations(ctx context.Context, viewerID string, cc ...*types.Conversation) {
	userIDs := map[string]struct{}{}
	jobIDs := map[string]struct{}{}
	for _, c := range cc {
		c.ViewedBy(viewerID)
		for _, uid := range c.Participants {
			userIDs[uid] = struct{}{}
		}
		if c.JobID != nil {
			jobIDs[*c.JobID] = struct{}{}
		}
	}

	var (
		mu    sync.Mutex
		users = make(map[string]types.User, len(userIDs))
		jobs  = make(map[string]types.Job, len(jobIDs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for uid := range userIDs {
		g.Go(func() error {
			u, err := svc.Users.User(gctx, uid)
			if err != nil {
				svc.logLookupErr(fmt.Errorf("could not fetch conversation user %s: %w", uid, err))
				return nil
			}

			mu.Lock()
			users[uid] = u
			mu.Unlock()
			return nil
		})
	}

	for jobID := range jobIDs {
		g.Go(func() error {
			job, err := svc.Jobs.Job(gctx, jobID)
			if err != nil {
				svc.logLookupErr(fmt.Errorf("could not fetch conversation job %s: %w", jobID, err))
				return nil
			}

			mu.Lock()
			jobs[jobID] = job
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	for _, c := range cc {
		c.Users = c.Users[:0]
		for _, uid := range c.Participants {
			if u, ok := users[uid]; ok {
				c.Users = append(c.Users, u)
			}
		}

		if c.JobID != nil {
			if job, ok := jobs[*c.JobID]; ok {
				c.Job = &job
			}
		}
	}
}

func (svc *Service) logLookupErr(err error) {
	if errors.Is(err, errs.NotFound) {
		return
	}

	_ = svc.Logger.Log("error", err)
}
