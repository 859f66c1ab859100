package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidJSONSection is returned when a nested profile section is neither
// a JSON value nor a string containing one.
var ErrInvalidJSONSection = errors.New("invalid JSON section")

// JSONSection holds a free-form nested profile section (experience, education,
// open roles, team links and so on).
//
// Clients send these sections either as plain JSON or as a JSON document
// encoded into a string; both forms decode to the same raw JSON.
type JSONSection json.RawMessage

// UnmarshalJSON accepts a JSON value or a string that itself contains JSON.
func (s *JSONSection) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}

	if b[0] == '"' {
		var encoded string
		if err := json.Unmarshal(b, &encoded); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidJSONSection, err)
		}
		if encoded == "" {
			*s = nil
			return nil
		}
		if !json.Valid([]byte(encoded)) {
			return ErrInvalidJSONSection
		}
		*s = JSONSection(encoded)
		return nil
	}

	if !json.Valid(b) {
		return ErrInvalidJSONSection
	}
	*s = append((*s)[:0], b...)
	return nil
}

// MarshalJSON emits the stored raw JSON, or null when empty.
func (s JSONSection) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(s), nil
}

// Profile is the public profile document of an account. It is stored as a
// single JSONB column.
type Profile struct {
	Bio          string   `json:"bio,omitempty"`
	ProfileImage string   `json:"profileImage,omitempty" validate:"omitempty,url"`
	Location     string   `json:"location,omitempty"`
	Website      string   `json:"website,omitempty" validate:"omitempty,url"`
	Title        string   `json:"title,omitempty"`
	DevFocus     []string `json:"devFocus,omitempty" validate:"dive,oneof=FRONTEND BACKEND FULLSTACK API DESIGN ANIMATION DEVOPS DATA MOBILE QA PRODUCT OTHER"`
	Languages    []string `json:"languages,omitempty"`
	Frameworks   []string `json:"frameworks,omitempty"`
	Tools        []string `json:"tools,omitempty"`
	Specialties  []string `json:"specialties,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Interests    []string `json:"interests,omitempty"`

	SocialLinks JSONSection `json:"socialLinks,omitempty"`
	Preferences JSONSection `json:"preferences,omitempty"`

	// developer sections
	YearsExp    *int        `json:"yearsExp,omitempty" validate:"omitempty,min=0,max=80"`
	OpenToRoles []string    `json:"openToRoles,omitempty"`
	Experience  JSONSection `json:"experience,omitempty"`
	Education   JSONSection `json:"education,omitempty"`
	TechStacks  JSONSection `json:"techStacks,omitempty"`
	Accolades   JSONSection `json:"accolades,omitempty"`
	Roles       []string    `json:"roles,omitempty"`

	// company sections
	CompanyName    string      `json:"companyName,omitempty"`
	CompanySize    string      `json:"companySize,omitempty"`
	Industry       string      `json:"industry,omitempty"`
	Hiring         *bool       `json:"hiring,omitempty"`
	OpenRoles      JSONSection `json:"openRoles,omitempty"`
	FoundingYear   *int        `json:"foundingYear,omitempty" validate:"omitempty,min=1800,max=2100"`
	TeamLinks      JSONSection `json:"teamLinks,omitempty"`
	OrgDescription string      `json:"orgDescription,omitempty"`
}

// ForUserType returns a copy of p with the sections that do not belong to
// userType cleared. Developers never expose company sections and vice versa.
func (p Profile) ForUserType(userType UserType) Profile {
	switch userType {
	case UserTypeDeveloper:
		p.CompanyName = ""
		p.CompanySize = ""
		p.Industry = ""
		p.Hiring = nil
		p.OpenRoles = nil
		p.FoundingYear = nil
		p.TeamLinks = nil
		p.OrgDescription = ""
	case UserTypeCompany:
		p.YearsExp = nil
		p.OpenToRoles = nil
		p.Experience = nil
		p.Education = nil
		p.TechStacks = nil
		p.Accolades = nil
		p.Roles = nil
	}
	return p
}

// Value implements [driver.Valuer] so the document can be written to a JSONB column.
func (p Profile) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements [sql.Scanner] for a JSONB column.
func (p *Profile) Scan(src any) error {
	return scanJSON(src, p)
}

// ProfileUpdate is the body of PUT /api/profile/me.
//
// A decoded update remembers which keys the client sent: every sent key
// replaces the stored value, empty values included, and every other key is
// kept. An update built in code carries its non-empty fields only.
type ProfileUpdate struct {
	DisplayName string `json:"displayName,omitempty" validate:"max=100"`
	GitHubURL   string `json:"githubUrl,omitempty" validate:"omitempty,url"`

	Profile

	sent map[string]json.RawMessage
}

type profileUpdateFields ProfileUpdate

// UnmarshalJSON decodes the update and records the keys present in b.
func (u *ProfileUpdate) UnmarshalJSON(b []byte) error {
	var sent map[string]json.RawMessage
	if err := json.Unmarshal(b, &sent); err != nil {
		return err
	}

	var fields profileUpdateFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	*u = ProfileUpdate(fields)
	u.sent = sent
	return nil
}

// Has reports whether key was sent. For an update built in code it reports
// whether the field is non-empty.
func (u ProfileUpdate) Has(key string) bool {
	sent, err := u.Sent()
	if err != nil {
		return false
	}
	_, ok := sent[key]
	return ok
}

// Sent returns the sent keys with their raw JSON values.
func (u ProfileUpdate) Sent() (map[string]json.RawMessage, error) {
	if u.sent != nil {
		return u.sent, nil
	}

	encoded, err := json.Marshal(profileUpdateFields(u))
	if err != nil {
		return nil, err
	}
	sent := map[string]json.RawMessage{}
	if err = json.Unmarshal(encoded, &sent); err != nil {
		return nil, err
	}
	return sent, nil
}

// Apply returns p with every profile key of the update replaced.
func (u ProfileUpdate) Apply(p Profile) (Profile, error) {
	sent, err := u.Sent()
	if err != nil {
		return Profile{}, err
	}

	encoded, err := json.Marshal(p)
	if err != nil {
		return Profile{}, err
	}
	merged := map[string]json.RawMessage{}
	if err = json.Unmarshal(encoded, &merged); err != nil {
		return Profile{}, err
	}
	for key, value := range sent {
		merged[key] = value
	}

	if encoded, err = json.Marshal(merged); err != nil {
		return Profile{}, err
	}
	var out Profile
	if err = json.Unmarshal(encoded, &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

// ProfileView is the profile representation returned by the API.
type ProfileView struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email,omitempty"`
	DisplayName    string   `json:"displayName"`
	UserType       UserType `json:"userType"`
	GitHubURL      string   `json:"githubUrl,omitempty"`
	GitHubUsername string   `json:"githubUsername,omitempty"`

	Profile

	GitHub         *GitHubProfile `json:"github,omitempty"`
	GitHubSyncedAt *time.Time     `json:"githubSyncedAt,omitempty"`
}

// ProfileRecord is an account row joined with its profile and GitHub documents.
type ProfileRecord struct {
	Account Account

	Profile        Profile
	GitHub         *GitHubProfile
	GitHubSyncedAt *time.Time
}

// View builds the API representation of r. Email is only included when
// withEmail is set (the owner's own profile).
func (r ProfileRecord) View(withEmail bool) ProfileView {
	view := ProfileView{
		ID:             r.Account.ID,
		Username:       r.Account.Username,
		DisplayName:    r.Account.DisplayName,
		UserType:       r.Account.UserType,
		GitHubURL:      r.Account.GitHubURL,
		GitHubUsername: r.Account.GitHubUsername,
		Profile:        r.Profile.ForUserType(r.Account.UserType),
		GitHub:         r.GitHub,
		GitHubSyncedAt: r.GitHubSyncedAt,
	}
	if withEmail {
		view.Email = r.Account.Email
	}
	return view
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}
