package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// User is the basic identity returned by /auth/user/.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName returns the full name, falling back to the username.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// TokenPair is the body of a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Theme is a named palette.
type Theme struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	SidebarColor    string `json:"sidebar_color,omitempty"`
	IsDefault       bool   `json:"is_default"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// ThemeRef is a profile's theme reference. The backend sends either the bare id or the nested theme.
type ThemeRef struct {
	ID    int
	Theme *Theme
}

// UnmarshalJSON accepts null, a number or a theme object.
func (r *ThemeRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ThemeRef{}
		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var t Theme
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("invalid theme reference: %w", err)
		}
		*r = ThemeRef{ID: t.ID, Theme: &t}
		return nil
	}

	var id int
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid theme reference %s: %w", data, err)
	}
	*r = ThemeRef{ID: id}
	return nil
}

// MarshalJSON writes the nested theme when known, else the id.
func (r ThemeRef) MarshalJSON() ([]byte, error) {
	if r.Theme != nil {
		return json.Marshal(r.Theme)
	}
	return json.Marshal(r.ID)
}

// UserInfo is the editable part of the user embedded in a profile update.
type UserInfo struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Profile is the extended profile at /profile/profile/.
type Profile struct {
	ID           int       `json:"id"`
	User         User      `json:"user"`
	UserInfo     *UserInfo `json:"user_info,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Postcode     string    `json:"postcode"`
	DateOfBirth  string    `json:"date_of_birth,omitempty"`
	NationalID   string    `json:"national_id"`
	Title        string    `json:"title"`
	HireDate     string    `json:"hire_date,omitempty"`
	About        string    `json:"about"`
	CurrentTheme *ThemeRef `json:"current_theme"`
}

// ProfileUpdate holds the text fields of a profile edit. Empty fields are left unchanged.
type ProfileUpdate struct {
	Phone       string
	Address     string
	City        string
	State       string
	Postcode    string
	DateOfBirth string
	NationalID  string
	Title       string
	HireDate    string
	About       string
}

// Fields returns the non-empty fields as multipart form values.
func (u ProfileUpdate) Fields() map[string]string {
	all := map[string]string{
		"phone":         u.Phone,
		"address":       u.Address,
		"city":          u.City,
		"state":         u.State,
		"postcode":      u.Postcode,
		"date_of_birth": u.DateOfBirth,
		"national_id":   u.NationalID,
		"title":         u.Title,
		"hire_date":     u.HireDate,
		"about":         u.About,
	}
	fields := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

// Activity is one entry of the audit log.
type Activity struct {
	ID          int            `json:"id"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   string         `json:"created_at"`
}
