package types

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nakamauwu/hireloop/validator"
)

type MessageKind string

const (
	MessageKindText      MessageKind = "text"
	MessageKindFile      MessageKind = "file"
	MessageKindInterview MessageKind = "interview"
)

func (k MessageKind) Valid() bool {
	switch k {
	case MessageKindText, MessageKindFile, MessageKindInterview:
		return true
	}
	return false
}

// Message is immutable once appended, except for its interview status.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationID" db:"conversation_id"`
	SenderID       string      `json:"senderID" db:"sender_id"`
	Seq            int64       `json:"seq"`
	Kind           MessageKind `json:"kind"`
	Text           string      `json:"text"`
	File           *FileRef    `json:"file"`
	Interview      *Interview  `json:"interview"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
}

// Preview is the conversation summary text for the message.
func (m Message) Preview() string {
	switch m.Kind {
	case MessageKindFile:
		if m.File != nil {
			return "Shared file: " + m.File.Name
		}
		return "Shared file"
	case MessageKindInterview:
		return InterviewScheduledText
	}
	return truncateRunes(m.Text, maxPreviewLength)
}

// FileRef points to a file already uploaded to storage.
// Its contents are never inspected.
type FileRef struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

func (f *FileRef) validate(v *validator.Validator) {
	if f == nil {
		v.AddError("File", "File is required")
		return
	}

	f.URL = strings.TrimSpace(f.URL)
	f.Name = strings.TrimSpace(f.Name)
	f.MimeType = strings.TrimSpace(f.MimeType)

	v.Check(validHTTPURL(f.URL), "File.URL", "File URL is invalid")
	v.Check(f.Name != "", "File.Name", "File name is required")
	v.Check(utf8.RuneCountInString(f.Name) <= maxFileNameLength, "File.Name", "File name is too long")
	v.Check(f.Size >= 0, "File.Size", "File size cannot be negative")

	if f.MimeType == "" {
		f.MimeType = "application/octet-stream"
	}
}

const (
	maxTextLength     = 4000
	maxPreviewLength  = 140
	maxFileNameLength = 255
)

type SendMessage struct {
	ConversationID string      `json:"-"`
	Kind           MessageKind `json:"kind"`
	Text           string      `json:"text"`
	File           *FileRef    `json:"file"`

	loggedInUserID string
}

func (in *SendMessage) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in SendMessage) LoggedInUserID() string {
	return in.loggedInUserID
}

// Validate checks the payload matching the kind and clears the others.
// Interviews are appended through [ScheduleInterview] instead.
func (in *SendMessage) Validate() error {
	v := validator.New()

	in.ConversationID = NormalizeID(in.ConversationID)
	v.Check(ValidUUID(in.ConversationID), "ConversationID", "Conversation ID is invalid")

	if in.Kind == "" {
		in.Kind = MessageKindText
	}

	switch in.Kind {
	case MessageKindText:
		in.Text = strings.TrimSpace(in.Text)
		in.File = nil
		v.Check(in.Text != "", "Text", "Text is required")
		v.Check(utf8.RuneCountInString(in.Text) <= maxTextLength, "Text", "Text is too long")
	case MessageKindFile:
		in.Text = ""
		in.File.validate(v)
	default:
		v.AddError("Kind", "Kind must be text or file")
	}

	return v.AsError()
}

type ListMessages struct {
	ConversationID string
	Limit          uint
	Before         *string
	After          *string

	loggedInUserID string
}

func (in *ListMessages) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListMessages) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in ListMessages) Mode() PageMode {
	switch {
	case in.Before != nil:
		return PageModeBefore
	case in.After != nil:
		return PageModeAfter
	}
	return PageModeLatest
}

func (in *ListMessages) Validate() error {
	v := validator.New()

	in.ConversationID = NormalizeID(in.ConversationID)
	v.Check(ValidUUID(in.ConversationID), "ConversationID", "Conversation ID is invalid")

	if in.Before != nil && strings.TrimSpace(*in.Before) == "" {
		in.Before = nil
	}
	if in.After != nil && strings.TrimSpace(*in.After) == "" {
		in.After = nil
	}

	v.Check(in.Before == nil || in.After == nil, "Cursor", "Cannot page before and after at the same time")

	in.Limit = clampLimit(in.Limit, defaultMessagesLimit, maxMessagesLimit)

	return v.AsError()
}

const (
	defaultMessagesLimit = 50
	maxMessagesLimit     = 100
)

type PageMode string

const (
	PageModeLatest PageMode = "latest"
	PageModeBefore PageMode = "before"
	PageModeAfter  PageMode = "after"
)

// PageMeta lets callers chain before and after requests without refetching.
// For an empty after page, the newest position echoes the requested cursor.
type PageMeta struct {
	Mode         PageMode   `json:"mode"`
	Limit        uint       `json:"limit"`
	HasMore      bool       `json:"hasMore"`
	OldestAt     *time.Time `json:"oldestAt"`
	NewestAt     *time.Time `json:"newestAt"`
	OldestCursor *string    `json:"oldestCursor"`
	NewestCursor *string    `json:"newestCursor"`
}

// MessagesPage holds messages in ascending order.
// ReadAck is set when the fetch acknowledged reading the conversation.
type MessagesPage struct {
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
	Meta         PageMeta     `json:"meta"`
	ReadAck      *ReadAck     `json:"readAck,omitempty"`
}

func validHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
