package tyfcb

import (
	"github.com/shopspring/decimal"

	"palms-analytics/internal/services/roster"
)

// Labels used in the exported TYFCB grid.
const (
	LabelMember          = "Member"
	LabelGivenWithin     = "Given (within):"
	LabelGivenOutside    = "Given (outside):"
	LabelTotalGiven      = "Total Given:"
	LabelReceivedWithin  = "Received (within):"
	LabelReceivedOutside = "Received (outside):"
	LabelTotalReceived   = "Total Received:"

	LabelChapterWithin  = "Chapter Total Within Org:"
	LabelChapterOutside = "Chapter Total Outside Org:"
	LabelWithinOrgShare = "Within Org %:"
)

// SummaryGrid renders a TYFCB summary as a 2-D string grid: one row per
// roster member with given/received amounts, then chapter footer rows.
func SummaryGrid(summary *Summary, members *roster.Roster) [][]string {
	grid := make([][]string, 0, members.Len()+4)
	grid = append(grid, []string{
		LabelMember,
		LabelGivenWithin, LabelGivenOutside, LabelTotalGiven,
		LabelReceivedWithin, LabelReceivedOutside, LabelTotalReceived,
	})

	for _, member := range members.Members() {
		stats, ok := summary.MemberStats[member.Key]
		if !ok {
			stats = &MemberStats{Member: member}
		}
		grid = append(grid, []string{
			member.FullName(),
			money(stats.GivenWithinOrg), money(stats.GivenOutsideOrg), money(stats.TotalGiven()),
			money(stats.ReceivedWithinOrg), money(stats.ReceivedOutsideOrg), money(stats.TotalReceived()),
		})
	}

	grid = append(grid,
		[]string{LabelChapterWithin, money(summary.AmountWithinOrg)},
		[]string{LabelChapterOutside, money(summary.AmountOutsideOrg)},
		[]string{LabelWithinOrgShare, summary.WithinOrgPercentage().StringFixed(1)},
	)

	return grid
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
