package matrix

import (
	"strconv"
)

// Export grid labels. Downstream tooling discovers the combination labels
// by scanning the grid, so they must match exactly.
const (
	LabelGiverReceiver = `Giver \ Receiver`

	LabelTotalReferralsGiven     = "Total Referrals Given:"
	LabelUniqueReferralsGiven    = "Unique Referrals Given:"
	LabelTotalReferralsReceived  = "Total Referrals Received:"
	LabelUniqueReferralsReceived = "Unique Referrals Received:"

	LabelTotalOTO  = "Total OTO:"
	LabelUniqueOTO = "Unique OTO:"

	LabelNeither        = "Neither:"
	LabelOTOOnly        = "OTO only:"
	LabelReferralOnly   = "Referral only:"
	LabelOTOAndReferral = "OTO and Referral:"
)

// ReferralGrid renders a referral matrix as a 2-D string grid with member
// names along row 0 and column 0, given-totals appended as columns, and
// received-totals appended as footer rows.
func ReferralGrid(m *Matrix) [][]string {
	return countGrid(m, LabelTotalReferralsGiven, LabelUniqueReferralsGiven,
		LabelTotalReferralsReceived, LabelUniqueReferralsReceived)
}

// MeetingGrid renders a one-to-one matrix as a 2-D string grid. The matrix
// is symmetric, so given and received totals coincide; only the row-side
// rollup is emitted.
func MeetingGrid(m *Matrix) [][]string {
	return countGrid(m, LabelTotalOTO, LabelUniqueOTO, "", "")
}

// CombinationGrid renders a combination matrix with the four category
// rollup columns appended after the member columns. The result is a valid
// snapshot-comparison input.
func CombinationGrid(combo *Matrix) [][]string {
	members := combo.Members()
	n := len(members)
	rollup := CombinationRollup(combo)

	header := make([]string, 0, n+5)
	header = append(header, LabelGiverReceiver)
	for _, member := range members {
		header = append(header, member.FullName())
	}
	header = append(header, LabelNeither, LabelOTOOnly, LabelReferralOnly, LabelOTOAndReferral)

	grid := [][]string{header}
	for i, giver := range members {
		row := make([]string, 0, n+5)
		row = append(row, giver.FullName())
		for j := 0; j < n; j++ {
			row = append(row, strconv.Itoa(combo.At(i, j)))
		}
		row = append(row,
			strconv.Itoa(rollup[i].Neither),
			strconv.Itoa(rollup[i].MeetingOnly),
			strconv.Itoa(rollup[i].ReferralOnly),
			strconv.Itoa(rollup[i].Both),
		)
		grid = append(grid, row)
	}

	return grid
}

// countGrid renders a plain count matrix with total/unique rollups.
// Footer labels may be empty to skip the received-side rows.
func countGrid(m *Matrix, totalLabel, uniqueLabel, totalFooter, uniqueFooter string) [][]string {
	members := m.Members()
	n := len(members)
	stats := Stats(m)

	header := make([]string, 0, n+3)
	header = append(header, LabelGiverReceiver)
	for _, member := range members {
		header = append(header, member.FullName())
	}
	header = append(header, totalLabel, uniqueLabel)

	grid := [][]string{header}
	for i, giver := range members {
		row := make([]string, 0, n+3)
		row = append(row, giver.FullName())
		for j := 0; j < n; j++ {
			row = append(row, strconv.Itoa(m.At(i, j)))
		}
		row = append(row, strconv.Itoa(stats[i].TotalGiven), strconv.Itoa(stats[i].UniqueGiven))
		grid = append(grid, row)
	}

	if totalFooter != "" && uniqueFooter != "" {
		totalRow := make([]string, 0, n+3)
		totalRow = append(totalRow, totalFooter)
		uniqueRow := make([]string, 0, n+3)
		uniqueRow = append(uniqueRow, uniqueFooter)
		for i := range members {
			totalRow = append(totalRow, strconv.Itoa(stats[i].TotalReceived))
			uniqueRow = append(uniqueRow, strconv.Itoa(stats[i].UniqueReceived))
		}
		grid = append(grid, totalRow, uniqueRow)
	}

	return grid
}
