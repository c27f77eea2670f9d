package types

import (
	"errors"
	"time"

	"github.com/nakamauwu/hireloop/validator"
)

var (
	errParticipantMissing = errors.New("conversation participant is missing")
	errSelfConversation   = errors.New("conversation participants must be distinct")
)

// Conversation between exactly two users, optionally scoped to a job.
//
// UnreadCounts always holds an entry for both participants.
// LastReadAt only holds entries for participants that acknowledged reading at least once.
type Conversation struct {
	ID                 string               `json:"id"`
	Participants       [2]string            `json:"participants"`
	JobID              *string              `json:"jobID"`
	CreatedBy          string               `json:"createdBy"`
	LastMessagePreview string               `json:"lastMessagePreview"`
	LastMessageAt      time.Time            `json:"lastMessageAt"`
	UnreadCounts       map[string]int       `json:"unreadCounts"`
	LastReadAt         map[string]time.Time `json:"lastReadAt"`
	CreatedAt          time.Time            `json:"createdAt"`

	// UnreadCount is the viewer's own counter.
	UnreadCount int    `json:"unreadCount"`
	Users       []User `json:"users,omitempty"`
	Job         *Job   `json:"job,omitempty"`
}

type ParticipantState struct {
	UserID      string     `json:"userID"`
	UnreadCount int        `json:"unreadCount"`
	LastReadAt  *time.Time `json:"lastReadAt"`
}

// SortParticipants returns the pair in the canonical order used for lookups.
func SortParticipants(a, b string) ([2]string, error) {
	a, b = NormalizeID(a), NormalizeID(b)
	if a == "" || b == "" {
		return [2]string{}, errParticipantMissing
	}

	if a == b {
		return [2]string{}, errSelfConversation
	}

	if b < a {
		a, b = b, a
	}

	return [2]string{a, b}, nil
}

// NewConversation restores a conversation from its participant states.
// States of users outside the pair are dropped and negative counters are clamped to zero.
func NewConversation(id string, a, b string, states []ParticipantState) (Conversation, error) {
	var out Conversation

	pair, err := SortParticipants(a, b)
	if err != nil {
		return out, err
	}

	out.ID = id
	out.Participants = pair
	out.UnreadCounts = map[string]int{pair[0]: 0, pair[1]: 0}
	out.LastReadAt = map[string]time.Time{}

	for _, s := range states {
		if !out.HasParticipant(s.UserID) {
			continue
		}

		out.UnreadCounts[s.UserID] = max(s.UnreadCount, 0)
		if s.LastReadAt != nil {
			out.LastReadAt[s.UserID] = *s.LastReadAt
		}
	}

	return out, nil
}

func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.Participants[0] == userID || c.Participants[1] == userID)
}

// OtherParticipant returns the participant that is not userID.
func (c Conversation) OtherParticipant(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// ViewedBy annotates the conversation with the viewer's unread counter.
func (c *Conversation) ViewedBy(userID string) {
	c.UnreadCount = c.UnreadCounts[userID]
}

type GetOrCreateConversation struct {
	OtherUserID string  `json:"otherUserID"`
	JobID       *string `json:"jobID"`

	loggedInUserID string
}

func (in *GetOrCreateConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in GetOrCreateConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

// JobScope is the value the job scope is stored and deduplicated under.
// Conversations without a job share the empty scope.
func (in GetOrCreateConversation) JobScope() string {
	if in.JobID == nil {
		return ""
	}
	return *in.JobID
}

func (in *GetOrCreateConversation) Validate() error {
	v := validator.New()

	in.OtherUserID = NormalizeID(in.OtherUserID)
	if in.JobID != nil {
		jobID := NormalizeID(*in.JobID)
		if jobID == "" {
			in.JobID = nil
		} else {
			in.JobID = &jobID
		}
	}

	if in.OtherUserID == "" {
		v.AddError("OtherUserID", "Other user ID is required")
	} else if !ValidUUID(in.OtherUserID) {
		v.AddError("OtherUserID", "Other user ID is invalid")
	} else if in.OtherUserID == NormalizeID(in.loggedInUserID) {
		v.AddError("OtherUserID", "Cannot start a conversation with yourself")
	}

	if in.JobID != nil {
		v.Check(ValidUUID(*in.JobID), "JobID", "Job ID is invalid")
	}

	return v.AsError()
}

type RetrieveConversation struct {
	ConversationID string

	loggedInUserID string
}

func (in *RetrieveConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in RetrieveConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *RetrieveConversation) Validate() error {
	v := validator.New()
	in.ConversationID = NormalizeID(in.ConversationID)
	v.Check(ValidUUID(in.ConversationID), "ConversationID", "Conversation ID is invalid")
	return v.AsError()
}

const (
	defaultConversationsLimit = 50
	maxConversationsLimit     = 100
)

type ListConversations struct {
	Limit uint

	loggedInUserID string
}

func (in *ListConversations) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListConversations) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ListConversations) Validate() error {
	in.Limit = clampLimit(in.Limit, defaultConversationsLimit, maxConversationsLimit)
	return nil
}

type MarkConversationRead struct {
	ConversationID string

	loggedInUserID string
}

func (in *MarkConversationRead) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in MarkConversationRead) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *MarkConversationRead) Validate() error {
	v := validator.New()
	in.ConversationID = NormalizeID(in.ConversationID)
	v.Check(ValidUUID(in.ConversationID), "ConversationID", "Conversation ID is invalid")
	return v.AsError()
}

// ReadAck is the caller's read state after an acknowledgment.
// Updated is false when the acknowledgment was a no-op.
type ReadAck struct {
	Updated     bool       `json:"updated"`
	UnreadCount int        `json:"unreadCount"`
	LastReadAt  *time.Time `json:"lastReadAt"`
}
