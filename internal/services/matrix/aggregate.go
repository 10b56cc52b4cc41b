package matrix

import (
	"go.uber.org/zap"

	"palms-analytics/internal/models"
	"palms-analytics/internal/services/roster"
	"palms-analytics/internal/utils"
)

// MemberStats is the per-member rollup derived from a count matrix:
// row/column totals plus the number of distinct counterparts.
type MemberStats struct {
	Member         *models.Member
	TotalGiven     int
	UniqueGiven    int
	TotalReceived  int
	UniqueReceived int
}

// BuildReferralMatrix aggregates referral records into a directed count
// matrix over the roster universe.
func BuildReferralMatrix(members *roster.Roster, referrals []*models.Referral) *Matrix {
	m := New(members.Members())

	skipped := 0
	for _, referral := range referrals {
		if err := m.Increment(referral.Giver, referral.Receiver); err != nil {
			skipped++
		}
	}
	if skipped > 0 {
		utils.GetLogger().Warn("Referral records outside the member universe skipped",
			zap.Int("skipped", skipped),
		)
	}

	return m
}

// BuildMeetingMatrix aggregates one-to-one records into a symmetric count
// matrix: each canonical record increments both (A,B) and (B,A).
func BuildMeetingMatrix(members *roster.Roster, meetings []*models.OneToOne) *Matrix {
	m := New(members.Members())

	skipped := 0
	for _, meeting := range meetings {
		if err := m.Increment(meeting.MemberA, meeting.MemberB); err != nil {
			skipped++
			continue
		}
		// Symmetric relation; the canonical record stands for two cells.
		_ = m.Increment(meeting.MemberB, meeting.MemberA)
	}
	if skipped > 0 {
		utils.GetLogger().Warn("One-to-one records outside the member universe skipped",
			zap.Int("skipped", skipped),
		)
	}

	return m
}

// Stats computes the per-member rollup for a count matrix.
func Stats(m *Matrix) []MemberStats {
	stats := make([]MemberStats, m.Len())

	for i, member := range m.Members() {
		s := MemberStats{Member: member}
		for j := 0; j < m.Len(); j++ {
			if given := m.At(i, j); given > 0 {
				s.TotalGiven += given
				s.UniqueGiven++
			}
			if received := m.At(j, i); received > 0 {
				s.TotalReceived += received
				s.UniqueReceived++
			}
		}
		stats[i] = s
	}

	return stats
}
