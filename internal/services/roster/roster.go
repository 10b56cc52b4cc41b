// Package roster canonicalizes member identity and supplies the fixed
// member universe for an analysis run.
package roster

import (
	"fmt"
	"sort"
	"strings"

	"palms-analytics/internal/models"
)

// Roster is the deduplicated, ordered set of chapter members. It is the
// total universe used to initialize every matrix: a slip row referencing a
// name absent from the roster cannot produce a relation record.
type Roster struct {
	members []*models.Member
	byKey   map[string]*models.Member
}

// Build constructs a roster from two-column (first name, last name) rows.
// The first row is assumed to be a header and skipped. Rows with both
// fields empty are discarded. Duplicate normalized names keep the first
// occurrence; each duplicate is reported as a non-fatal warning.
func Build(rows [][]string) (*Roster, []string) {
	r := &Roster{byKey: make(map[string]*models.Member)}
	var warnings []string

	for i, row := range rows {
		if i == 0 {
			continue
		}

		first, last := "", ""
		if len(row) > 0 {
			first = row[0]
		}
		if len(row) > 1 {
			last = row[1]
		}

		if strings.TrimSpace(first) == "" && strings.TrimSpace(last) == "" {
			continue
		}

		member, err := models.NewMember(first, last)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: could not create member from %q %q: %v", i+1, first, last, err))
			continue
		}

		// First occurrence wins.
		if _, ok := r.byKey[member.Key]; ok {
			warnings = append(warnings, fmt.Sprintf("row %d: duplicate member %q ignored", i+1, member.FullName()))
			continue
		}

		r.byKey[member.Key] = member
		r.members = append(r.members, member)
	}

	sort.Slice(r.members, func(i, j int) bool {
		return r.members[i].Key < r.members[j].Key
	})

	return r, warnings
}

// Merge combines several rosters (one per member file) into one,
// deduplicating by normalized key with first-wins semantics.
func Merge(rosters ...*Roster) (*Roster, []string) {
	merged := &Roster{byKey: make(map[string]*models.Member)}
	var warnings []string

	for _, r := range rosters {
		if r == nil {
			continue
		}
		for _, member := range r.members {
			if _, ok := merged.byKey[member.Key]; ok {
				warnings = append(warnings, fmt.Sprintf("duplicate member %q across member files ignored", member.FullName()))
				continue
			}
			merged.byKey[member.Key] = member
			merged.members = append(merged.members, member)
		}
	}

	sort.Slice(merged.members, func(i, j int) bool {
		return merged.members[i].Key < merged.members[j].Key
	})

	return merged, warnings
}

// Lookup resolves a free-text name against the roster using the same
// normalization rule that built it.
func (r *Roster) Lookup(name string) (*models.Member, bool) {
	if name == "" {
		return nil, false
	}
	member, ok := r.byKey[models.NormalizeName(name)]
	return member, ok
}

// Members returns the roster in normalized-key order. The returned slice
// must not be mutated.
func (r *Roster) Members() []*models.Member {
	return r.members
}

// Len returns the number of members in the roster.
func (r *Roster) Len() int {
	return len(r.members)
}
