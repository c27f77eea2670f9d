package types

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nakamauwu/hireloop/validator"
)

const InterviewScheduledText = "Interview scheduled"

type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCancelled InterviewStatus = "cancelled"
)

func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewStatusScheduled, InterviewStatusCompleted, InterviewStatusCancelled:
		return true
	}
	return false
}

type MeetingProvider string

const (
	MeetingProviderGoogleMeet MeetingProvider = "google_meet"
	MeetingProviderZoom       MeetingProvider = "zoom"
	MeetingProviderOther      MeetingProvider = "other"
)

func (p MeetingProvider) Valid() bool {
	switch p {
	case MeetingProviderGoogleMeet, MeetingProviderZoom, MeetingProviderOther:
		return true
	}
	return false
}

type Interview struct {
	ScheduledAt     time.Time       `json:"scheduledAt"`
	DurationMinutes int             `json:"durationMinutes"`
	Provider        MeetingProvider `json:"provider"`
	MeetingLink     string          `json:"meetingLink"`
	Notes           string          `json:"notes"`
	Status          InterviewStatus `json:"status"`
}

func (iv Interview) Duration() time.Duration {
	return time.Duration(iv.DurationMinutes) * time.Minute
}

const (
	defaultInterviewMinutes = 30
	maxInterviewMinutes     = 8 * 60
	maxInterviewNotes       = 2000
)

type ScheduleInterview struct {
	ConversationID  string          `json:"-"`
	ScheduledAt     time.Time       `json:"scheduledAt"`
	DurationMinutes int             `json:"durationMinutes"`
	Provider        MeetingProvider `json:"provider"`
	MeetingLink     string          `json:"meetingLink"`
	Notes           string          `json:"notes"`

	loggedInUserID string
}

func (in *ScheduleInterview) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ScheduleInterview) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ScheduleInterview) Validate() error {
	v := validator.New()

	in.ConversationID = NormalizeID(in.ConversationID)
	v.Check(ValidUUID(in.ConversationID), "ConversationID", "Conversation ID is invalid")
	v.Check(!in.ScheduledAt.IsZero(), "ScheduledAt", "Scheduled time is required")

	if in.DurationMinutes == 0 {
		in.DurationMinutes = defaultInterviewMinutes
	}
	v.Check(in.DurationMinutes > 0 && in.DurationMinutes <= maxInterviewMinutes,
		"DurationMinutes", "Duration must be between 1 and 480 minutes")

	if in.Provider == "" {
		in.Provider = MeetingProviderOther
	}
	v.Check(in.Provider.Valid(), "Provider", "Provider must be google_meet, zoom or other")

	in.MeetingLink = strings.TrimSpace(in.MeetingLink)
	v.Check(in.MeetingLink == "" || validHTTPURL(in.MeetingLink), "MeetingLink", "Meeting link is invalid")

	in.Notes = strings.TrimSpace(in.Notes)
	v.Check(utf8.RuneCountInString(in.Notes) <= maxInterviewNotes, "Notes", "Notes are too long")

	return v.AsError()
}

// Interview builds the scheduled interview payload.
func (in ScheduleInterview) Interview() Interview {
	return Interview{
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Provider:        in.Provider,
		MeetingLink:     in.MeetingLink,
		Notes:           in.Notes,
		Status:          InterviewStatusScheduled,
	}
}

type UpdateInterviewStatus struct {
	MessageID string          `json:"-"`
	Status    InterviewStatus `json:"status"`

	loggedInUserID string
}

func (in *UpdateInterviewStatus) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in UpdateInterviewStatus) LoggedInUserID() string {
	return in.loggedInUserID
}

// Validate accepts any of the three statuses; transitions between them are unrestricted.
func (in *UpdateInterviewStatus) Validate() error {
	v := validator.New()
	in.MessageID = NormalizeID(in.MessageID)
	v.Check(ValidUUID(in.MessageID), "MessageID", "Message ID is invalid")
	v.Check(in.Status.Valid(), "Status", "Status must be scheduled, completed or cancelled")
	return v.AsError()
}
