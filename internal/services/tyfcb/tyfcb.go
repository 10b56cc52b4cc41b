// Package tyfcb computes monetary thank-you-for-closed-business statistics.
package tyfcb

import (
	"sort"

	"github.com/shopspring/decimal"

	"palms-analytics/internal/models"
	"palms-analytics/internal/services/roster"
)

// MemberStats rolls up one member's TYFCB activity, split by whether the
// business was closed within or outside the organization.
type MemberStats struct {
	Member *models.Member

	GivenWithinOrg     decimal.Decimal
	GivenOutsideOrg    decimal.Decimal
	ReceivedWithinOrg  decimal.Decimal
	ReceivedOutsideOrg decimal.Decimal

	CountGivenWithinOrg     int
	CountGivenOutsideOrg    int
	CountReceivedWithinOrg  int
	CountReceivedOutsideOrg int
}

// TotalGiven returns the total amount given by this member.
func (s *MemberStats) TotalGiven() decimal.Decimal {
	return s.GivenWithinOrg.Add(s.GivenOutsideOrg)
}

// TotalReceived returns the total amount received by this member.
func (s *MemberStats) TotalReceived() decimal.Decimal {
	return s.ReceivedWithinOrg.Add(s.ReceivedOutsideOrg)
}

// Summary aggregates TYFCB activity across the whole chapter.
type Summary struct {
	AmountWithinOrg  decimal.Decimal
	AmountOutsideOrg decimal.Decimal
	CountWithinOrg   int
	CountOutsideOrg  int
	MemberStats      map[string]*MemberStats // keyed by normalized member key
}

// TotalAmount returns the total TYFCB amount across all members.
func (s *Summary) TotalAmount() decimal.Decimal {
	return s.AmountWithinOrg.Add(s.AmountOutsideOrg)
}

// TotalCount returns the total number of TYFCB slips.
func (s *Summary) TotalCount() int {
	return s.CountWithinOrg + s.CountOutsideOrg
}

// WithinOrgPercentage returns the share of the total amount that was closed
// within the organization, as a percentage.
func (s *Summary) WithinOrgPercentage() decimal.Decimal {
	total := s.TotalAmount()
	if total.IsZero() {
		return decimal.Zero
	}
	return s.AmountWithinOrg.Div(total).Mul(decimal.NewFromInt(100))
}

// Summarize computes per-member statistics and chapter totals from a list
// of TYFCB slips. Slips referencing members outside the roster only affect
// the receiver/giver sides that resolve.
func Summarize(members *roster.Roster, thankYous []*models.ThankYou) *Summary {
	summary := &Summary{
		MemberStats: make(map[string]*MemberStats, members.Len()),
	}
	for _, member := range members.Members() {
		summary.MemberStats[member.Key] = &MemberStats{Member: member}
	}

	for _, ty := range thankYous {
		if ty.WithinOrg {
			summary.AmountWithinOrg = summary.AmountWithinOrg.Add(ty.Amount)
			summary.CountWithinOrg++
		} else {
			summary.AmountOutsideOrg = summary.AmountOutsideOrg.Add(ty.Amount)
			summary.CountOutsideOrg++
		}

		if ty.Giver != nil {
			if stats, ok := summary.MemberStats[ty.Giver.Key]; ok {
				if ty.WithinOrg {
					stats.GivenWithinOrg = stats.GivenWithinOrg.Add(ty.Amount)
					stats.CountGivenWithinOrg++
				} else {
					stats.GivenOutsideOrg = stats.GivenOutsideOrg.Add(ty.Amount)
					stats.CountGivenOutsideOrg++
				}
			}
		}

		if stats, ok := summary.MemberStats[ty.Receiver.Key]; ok {
			if ty.WithinOrg {
				stats.ReceivedWithinOrg = stats.ReceivedWithinOrg.Add(ty.Amount)
				stats.CountReceivedWithinOrg++
			} else {
				stats.ReceivedOutsideOrg = stats.ReceivedOutsideOrg.Add(ty.Amount)
				stats.CountReceivedOutsideOrg++
			}
		}
	}

	return summary
}

// Performer pairs a member with a TYFCB amount for ranking.
type Performer struct {
	Member *models.Member
	Amount decimal.Decimal
}

// TopPerformers ranks members by total TYFCB amount given (byGiven) or
// received, returning up to topN members with a non-zero amount.
func TopPerformers(summary *Summary, byGiven bool, topN int) []Performer {
	performers := make([]Performer, 0, len(summary.MemberStats))

	for _, stats := range summary.MemberStats {
		amount := stats.TotalReceived()
		if byGiven {
			amount = stats.TotalGiven()
		}
		if amount.IsPositive() {
			performers = append(performers, Performer{Member: stats.Member, Amount: amount})
		}
	}

	sort.SliceStable(performers, func(i, j int) bool {
		if performers[i].Amount.Equal(performers[j].Amount) {
			return performers[i].Member.Key < performers[j].Member.Key
		}
		return performers[i].Amount.GreaterThan(performers[j].Amount)
	})

	if len(performers) > topN {
		performers = performers[:topN]
	}
	return performers
}
