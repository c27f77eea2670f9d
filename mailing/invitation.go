package mailing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/hako/durafmt"
)

//go:embed template/*.tmpl
var templateFiles embed.FS

var invitationTmpl = template.Must(template.New("interview-invitation.html.tmpl").
	Funcs(template.FuncMap{
		"human_duration": humanDuration,
	}).
	ParseFS(templateFiles, "template/interview-invitation.html.tmpl"))

type InterviewInvitation struct {
	RecipientName   string
	OrganizerName   string
	JobTitle        string
	ScheduledAt     time.Time
	Duration        time.Duration
	MeetingLink     string
	Notes           string
	ConversationURL string
}

// Render returns the subject and both bodies of the invitation mail.
func (inv InterviewInvitation) Render() (subject, html, text string, err error) {
	subject = "Interview scheduled with " + inv.OrganizerName
	if inv.JobTitle != "" {
		subject += " for " + inv.JobTitle
	}

	var b bytes.Buffer
	if err := invitationTmpl.Execute(&b, inv); err != nil {
		return "", "", "", fmt.Errorf("could not execute interview invitation template: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s scheduled an interview with you", inv.OrganizerName)
	if inv.JobTitle != "" {
		fmt.Fprintf(&sb, " for %s", inv.JobTitle)
	}
	fmt.Fprintf(&sb, ".\nWhen: %s\nDuration: %s\n",
		inv.ScheduledAt.Format("Mon, 02 Jan 2006 15:04 MST"), humanDuration(inv.Duration))
	if inv.MeetingLink != "" {
		fmt.Fprintf(&sb, "Join: %s\n", inv.MeetingLink)
	}
	if inv.Notes != "" {
		fmt.Fprintf(&sb, "\n%s\n", inv.Notes)
	}
	fmt.Fprintf(&sb, "\n%s\n", inv.ConversationURL)

	return subject, b.String(), sb.String(), nil
}

func humanDuration(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(2).String()
}
