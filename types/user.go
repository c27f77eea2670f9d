package types

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nakamauwu/hireloop/validator"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// CanChat reports whether users with this role may take part in conversations.
func (r Role) CanChat() bool {
	return r == RoleCandidate || r == RoleRecruiter
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Role        Role      `json:"role"`
	Headline    *string   `json:"headline"`
	CompanyName *string   `json:"companyName" db:"company_name"`
	JobTitle    *string   `json:"jobTitle" db:"job_title"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

const (
	defaultContactsLimit = 20
	maxContactsLimit     = 100
	maxContactsQuery     = 100
)

type SearchContacts struct {
	Query string
	Role  *Role
	Limit uint

	loggedInUserID string
}

func (in *SearchContacts) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in SearchContacts) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *SearchContacts) Validate() error {
	v := validator.New()

	in.Query = strings.TrimSpace(in.Query)
	v.Check(utf8.RuneCountInString(in.Query) <= maxContactsQuery, "Query", "Query is too long")

	// An unknown role filter is ignored rather than rejected.
	if in.Role != nil && !in.Role.CanChat() {
		in.Role = nil
	}

	in.Limit = clampLimit(in.Limit, defaultContactsLimit, maxContactsLimit)

	return v.AsError()
}
