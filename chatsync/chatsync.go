// Package chatsync keeps a local view of one user's conversations in step with the server by polling.
package chatsync

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMessagesInterval      = 5 * time.Second
	defaultConversationsInterval = 12 * time.Second
	defaultSendTimeout           = 15 * time.Second
)

var (
	ErrNoConversation = errs.InvalidArgumentError("no conversation open")
	ErrEmptyText      = errs.InvalidArgumentError("text is required")
)

// API is the part of the server API the sync loop consumes.
// [github.com/nakamauwu/hireloop/client.Client] implements it.
type API interface {
	Conversations(ctx context.Context, in types.ListConversations) ([]types.Conversation, error)
	Messages(ctx context.Context, in types.ListMessages) (types.MessagesPage, error)
	SendMessage(ctx context.Context, in types.SendMessage) (types.Message, error)
}

type Config struct {
	API API
	// UserID of the local user, set as sender of pending entries.
	UserID                string
	Logger                log.Logger
	MessagesInterval      time.Duration
	ConversationsInterval time.Duration
	SendTimeout           time.Duration
	// OnChange is called after every change to the local view, outside of any lock.
	OnChange func()
}

// Sync holds the local view: the conversation list and the entries of the open conversation.
type Sync struct {
	api                   API
	userID                string
	logger                log.Logger
	messagesInterval      time.Duration
	conversationsInterval time.Duration
	sendTimeout           time.Duration
	onChange              func()

	mu             sync.Mutex
	conversations  []types.Conversation
	conversationID string
	entries        []Entry
	hasMore        bool
	oldestCursor   *string
	newestCursor   *string
	draft          string
}

func New(cfg Config) *Sync {
	s := &Sync{
		api:                   cfg.API,
		userID:                cfg.UserID,
		logger:                cfg.Logger,
		messagesInterval:      cfg.MessagesInterval,
		conversationsInterval: cfg.ConversationsInterval,
		sendTimeout:           cfg.SendTimeout,
		onChange:              cfg.OnChange,
	}

	if s.logger == nil {
		s.logger = log.NewNopLogger()
	}
	if s.messagesInterval == 0 {
		s.messagesInterval = defaultMessagesInterval
	}
	if s.conversationsInterval == 0 {
		s.conversationsInterval = defaultConversationsInterval
	}
	if s.sendTimeout == 0 {
		s.sendTimeout = defaultSendTimeout
	}

	return s
}

// Open replaces the open conversation with the latest page of conversationID.
func (s *Sync) Open(ctx context.Context, conversationID string) error {
	page, err := s.api.Messages(ctx, types.ListMessages{ConversationID: conversationID})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conversationID = conversationID
	s.entries = Merge(nil, page.Messages)
	s.hasMore = page.Meta.HasMore
	s.oldestCursor = page.Meta.OldestCursor
	s.newestCursor = page.Meta.NewestCursor
	s.draft = ""
	s.patchConversation(conversationID, func(c *types.Conversation) {
		c.UnreadCount = 0
	})
	s.mu.Unlock()

	s.changed()
	return nil
}

// Run polls until ctx is done. Polling failures are logged at debug level
// and retried on the next tick.
func (s *Sync) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.every(ctx, s.messagesInterval, "messages", s.PollMessages)
		return nil
	})
	g.Go(func() error {
		s.every(ctx, s.conversationsInterval, "conversations", s.RefreshConversations)
		return nil
	})
	return g.Wait()
}

func (s *Sync) every(ctx context.Context, d time.Duration, what string, fn func(ctx context.Context) error) {
	t := time.NewTicker(d)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				_ = level.Debug(s.logger).Log("msg", "poll failed", "poll", what, "err", err)
			}
		}
	}
}

// PollMessages fetches what is newer than the newest known message of the open conversation.
// Without a newest cursor yet it fetches the latest page.
func (s *Sync) PollMessages(ctx context.Context) error {
	s.mu.Lock()
	conversationID, after := s.conversationID, s.newestCursor
	s.mu.Unlock()

	if conversationID == "" {
		return nil
	}

	page, err := s.api.Messages(ctx, types.ListMessages{ConversationID: conversationID, After: after})
	if err != nil {
		return err
	}

	if len(page.Messages) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.conversationID != conversationID {
		s.mu.Unlock()
		return nil
	}

	s.entries = Merge(s.entries, page.Messages)
	if page.Meta.NewestCursor != nil {
		s.newestCursor = page.Meta.NewestCursor
	}
	if s.oldestCursor == nil {
		s.oldestCursor = page.Meta.OldestCursor
		s.hasMore = page.Meta.HasMore
	}

	last := page.Messages[len(page.Messages)-1]
	s.patchConversation(conversationID, func(c *types.Conversation) {
		c.UnreadCount = 0
		c.LastMessageAt = last.CreatedAt
		c.LastMessagePreview = last.Preview()
	})
	s.mu.Unlock()

	s.changed()
	return nil
}

// RefreshConversations replaces the conversation list summary.
func (s *Sync) RefreshConversations(ctx context.Context) error {
	cc, err := s.api.Conversations(ctx, types.ListConversations{})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conversations = cc
	s.mu.Unlock()

	s.changed()
	return nil
}

// Send shows text right away as a pending entry and sends it.
// On failure the entry is removed, the text is restored as draft and the error returned.
func (s *Sync) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	localID, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("could not generate local message id: %w", err)
	}

	s.mu.Lock()
	conversationID := s.conversationID
	if conversationID == "" {
		s.mu.Unlock()
		return ErrNoConversation
	}

	s.entries = append(s.entries, Entry{
		LocalID: localID,
		State:   EntryPending,
		Message: types.Message{
			ConversationID: conversationID,
			SenderID:       s.userID,
			Kind:           types.MessageKindText,
			Text:           text,
			CreatedAt:      time.Now(),
		},
	})
	s.draft = ""
	s.mu.Unlock()

	s.changed()

	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	msg, err := s.api.SendMessage(ctx, types.SendMessage{
		ConversationID: conversationID,
		Kind:           types.MessageKindText,
		Text:           text,
	})

	s.mu.Lock()
	s.entries = slices.DeleteFunc(s.entries, func(e Entry) bool {
		return e.State == EntryPending && e.LocalID == localID
	})
	if err != nil {
		if s.conversationID == conversationID && s.draft == "" {
			s.draft = text
		}
	} else if s.conversationID == conversationID {
		s.entries = Merge(s.entries, []types.Message{msg})
		s.patchConversation(conversationID, func(c *types.Conversation) {
			c.UnreadCount = 0
			c.LastMessageAt = msg.CreatedAt
			c.LastMessagePreview = msg.Preview()
		})
	}
	s.mu.Unlock()

	s.changed()
	return err
}

// LoadOlder fetches the page before the oldest known message.
// It reports false without fetching when there is nothing older.
func (s *Sync) LoadOlder(ctx context.Context) (bool, error) {
	s.mu.Lock()
	conversationID, before, hasMore := s.conversationID, s.oldestCursor, s.hasMore
	s.mu.Unlock()

	if conversationID == "" || before == nil || !hasMore {
		return false, nil
	}

	page, err := s.api.Messages(ctx, types.ListMessages{ConversationID: conversationID, Before: before})
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.conversationID == conversationID {
		s.entries = Merge(s.entries, page.Messages)
		s.hasMore = page.Meta.HasMore
		if page.Meta.OldestCursor != nil {
			s.oldestCursor = page.Meta.OldestCursor
		}
	}
	s.mu.Unlock()

	s.changed()
	return true, nil
}

func (s *Sync) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

func (s *Sync) Conversations() []types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.conversations)
}

func (s *Sync) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *Sync) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Sync) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	s.mu.Unlock()
}

// patchConversation applies fn to the listed conversation, if listed.
// s.mu must be held.
func (s *Sync) patchConversation(conversationID string, fn func(c *types.Conversation)) {
	i := slices.IndexFunc(s.conversations, func(c types.Conversation) bool {
		return c.ID == conversationID
	})
	if i == -1 {
		return
	}

	c := s.conversations[i]
	fn(&c)
	s.conversations = slices.Clone(s.conversations)
	s.conversations[i] = c
	slices.SortStableFunc(s.conversations, func(a, b types.Conversation) int {
		return b.LastMessageAt.Compare(a.LastMessageAt)
	})
}

func (s *Sync) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
