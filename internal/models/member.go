// Package models defines the data structures for the chapter activity analyzer.
package models

import (
	"strings"
)

// Member represents a chapter member. Members are immutable after
// construction and compared by their normalized key.
type Member struct {
	FirstName string
	LastName  string
	// Key is the normalized identity: first and last name concatenated,
	// all whitespace removed, lower-cased.
	Key string
}

// NormalizeName lowers a name and strips all whitespace, so that
// "Jane Doe", " jane doe " and "jane   doe" share one key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// NewMember creates a member from first and last name fields.
// Both fields are trimmed; at least one must be non-empty.
func NewMember(firstName, lastName string) (*Member, error) {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)

	if first == "" && last == "" {
		return nil, ErrEmptyMemberName
	}

	return &Member{
		FirstName: first,
		LastName:  last,
		Key:       NormalizeName(first + " " + last),
	}, nil
}

// MemberFromFullName creates a member from a single full-name string,
// splitting on the first space.
func MemberFromFullName(fullName string) (*Member, error) {
	parts := strings.SplitN(strings.TrimSpace(fullName), " ", 2)
	first := parts[0]
	last := ""
	if len(parts) > 1 {
		last = parts[1]
	}
	return NewMember(first, last)
}

// FullName returns the member's display name.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Equal reports whether two members share the same normalized key.
func (m *Member) Equal(other *Member) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Key == other.Key
}

func (m *Member) String() string {
	return m.FullName()
}
