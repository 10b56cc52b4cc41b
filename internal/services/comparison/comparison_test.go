package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshot builds a minimal combination-matrix export: member columns are
// irrelevant to the comparator, only column 0 and the four rollup columns
// matter.
func snapshot(rows ...[]string) [][]string {
	header := []string{`Giver \ Receiver`, LabelNeither, LabelOTOOnly, LabelReferralOnly, LabelOTOAndReferral}
	return append([][]string{header}, rows...)
}

func TestFindHeaders(t *testing.T) {
	grid := snapshot(
		[]string{"Alice Anderson", "1", "0", "2", "3"},
	)

	headers, err := FindHeaders(grid)
	require.NoError(t, err)
	assert.Equal(t, CellRef{Row: 0, Col: 1}, headers.Neither)
	assert.Equal(t, CellRef{Row: 0, Col: 2}, headers.OTOOnly)
	assert.Equal(t, CellRef{Row: 0, Col: 3}, headers.ReferralOnly)
	assert.Equal(t, CellRef{Row: 0, Col: 4}, headers.OTOAndReferral)
}

func TestFindHeaders_NotOnFirstRow(t *testing.T) {
	grid := [][]string{
		{"Some preamble"},
		{"", LabelNeither, LabelOTOOnly, LabelReferralOnly, LabelOTOAndReferral},
		{"Alice Anderson", "1", "0", "2", "3"},
	}

	headers, err := FindHeaders(grid)
	require.NoError(t, err)
	assert.Equal(t, 1, headers.OTOAndReferral.Row)
}

func TestFindHeaders_MissingLabels(t *testing.T) {
	grid := [][]string{
		{`Giver \ Receiver`, LabelNeither, LabelOTOOnly},
		{"Alice Anderson", "1", "0"},
	}

	_, err := FindHeaders(grid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelReferralOnly)
	assert.Contains(t, err.Error(), LabelOTOAndReferral)
	assert.NotContains(t, err.Error(), LabelOTOOnly+",")
}

func TestTrendOf(t *testing.T) {
	assert.Equal(t, TrendPositive, trendOf(4))
	assert.Equal(t, TrendPositive, trendOf(0.5))
	assert.Equal(t, TrendNegative, trendOf(-1))
	assert.Equal(t, TrendUnchanged, trendOf(0))
}

func TestCompare_Deltas(t *testing.T) {
	newGrid := snapshot(
		[]string{"Alice Anderson", "2", "1", "6", "8"}, // referrals 6+8=14
		[]string{"Bob Brown", "5", "0", "4", "6"},      // referrals 4+6=10
	)
	oldGrid := snapshot(
		[]string{"Alice Anderson", "3", "1", "4", "6"}, // referrals 4+6=10
		[]string{"Bob Brown", "5", "0", "4", "6"},      // referrals 10, unchanged
	)

	report, err := Compare(newGrid, oldGrid)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 2)

	alice := report.Deltas[0]
	assert.Equal(t, "Alice Anderson", alice.Name)
	assert.Equal(t, 14.0, alice.CurrentReferrals)
	assert.Equal(t, 10.0, alice.LastReferrals)
	assert.Equal(t, 4.0, alice.ReferralChange)
	assert.Equal(t, TrendPositive, alice.ReferralTrend)
	assert.Equal(t, 2.0, alice.CurrentNeither)
	assert.Equal(t, 3.0, alice.LastNeither)
	assert.Equal(t, -1.0, alice.NeitherChange)
	assert.Equal(t, TrendNegative, alice.NeitherTrend)

	bob := report.Deltas[1]
	assert.Equal(t, 0.0, bob.ReferralChange)
	assert.Equal(t, TrendUnchanged, bob.ReferralTrend)
}

func TestCompare_NewMemberDefaultsToZero(t *testing.T) {
	newGrid := snapshot(
		[]string{"Dora Diaz", "1", "0", "3", "2"},
	)
	oldGrid := snapshot(
		[]string{"Alice Anderson", "3", "1", "4", "6"},
	)

	report, err := Compare(newGrid, oldGrid)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 1)

	dora := report.Deltas[0]
	assert.Equal(t, 0.0, dora.LastReferrals)
	assert.Equal(t, 5.0, dora.ReferralChange)
	assert.Equal(t, TrendPositive, dora.ReferralTrend)
}

func TestCompare_NameMatchingIsCaseInsensitive(t *testing.T) {
	newGrid := snapshot(
		[]string{"ALICE ANDERSON", "1", "0", "3", "2"},
	)
	oldGrid := snapshot(
		[]string{"  alice anderson ", "1", "0", "2", "1"},
	)

	report, err := Compare(newGrid, oldGrid)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 1)
	assert.Equal(t, 3.0, report.Deltas[0].LastReferrals)
	assert.Equal(t, 2.0, report.Deltas[0].ReferralChange)
}

func TestCompare_NonNumericCellsCoerceToZero(t *testing.T) {
	newGrid := snapshot(
		[]string{"Alice Anderson", "n/a", "", "x", "2"},
	)
	oldGrid := snapshot(
		[]string{"Alice Anderson", "1", "0", "1", "1"},
	)

	report, err := Compare(newGrid, oldGrid)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 1)
	assert.Equal(t, 2.0, report.Deltas[0].CurrentReferrals)
	assert.Equal(t, 0.0, report.Deltas[0].CurrentNeither)
}

func TestCompare_MissingHeadersFails(t *testing.T) {
	newGrid := snapshot([]string{"Alice Anderson", "1", "0", "2", "3"})
	oldGrid := [][]string{{"not a snapshot"}}

	_, err := Compare(newGrid, oldGrid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "old snapshot")

	_, err = Compare(oldGrid, newGrid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new snapshot")
}

func TestCompare_OutputGrid(t *testing.T) {
	newGrid := snapshot(
		[]string{"Alice Anderson", "2", "1", "6", "8"},
	)
	oldGrid := snapshot(
		[]string{"Alice Anderson", "3", "1", "4", "6"},
	)

	report, err := Compare(newGrid, oldGrid)
	require.NoError(t, err)

	header := report.Grid[0]
	require.Len(t, header, 10)
	assert.Equal(t, LabelCurrentReferral, header[5])
	assert.Equal(t, LabelLastReferral, header[6])
	assert.Equal(t, LabelChangeInReferrals, header[7])
	assert.Equal(t, LabelLastNeither, header[8])
	assert.Equal(t, LabelChangeInNeither, header[9])

	row := report.Grid[1]
	assert.Equal(t, "14", row[5])
	assert.Equal(t, "10", row[6])
	assert.Equal(t, "+4 "+string(TrendPositive), row[7])
	assert.Equal(t, "3", row[8])
	assert.Equal(t, "-1 "+string(TrendNegative), row[9])

	// Input grid is left untouched.
	assert.Len(t, newGrid[0], 5)
}

func TestCompare_OverwritesStaleComparisonColumns(t *testing.T) {
	newGrid := snapshot(
		[]string{"Alice Anderson", "2", "1", "6", "8"},
	)
	newGrid[0] = append(newGrid[0], "Old Junk:", "More Junk:")
	newGrid[1] = append(newGrid[1], "99", "98")

	oldGrid := snapshot(
		[]string{"Alice Anderson", "3", "1", "4", "6"},
	)

	report, err := Compare(newGrid, oldGrid)
	require.NoError(t, err)
	assert.Equal(t, LabelCurrentReferral, report.Grid[0][5])
	assert.Equal(t, "14", report.Grid[1][5])
}

func TestCompare_Insights(t *testing.T) {
	newGrid := snapshot(
		[]string{"Alice Anderson", "0", "0", "6", "8"}, // +4
		[]string{"Bob Brown", "0", "0", "4", "6"},      // 0
		[]string{"Carol Clark", "0", "0", "1", "1"},    // -3
		[]string{"Dora Diaz", "0", "0", "5", "5"},      // +10 (new)
	)
	oldGrid := snapshot(
		[]string{"Alice Anderson", "0", "0", "4", "6"},
		[]string{"Bob Brown", "0", "0", "4", "6"},
		[]string{"Carol Clark", "0", "0", "3", "2"},
	)

	report, err := Compare(newGrid, oldGrid)
	require.NoError(t, err)

	insights := report.Insights
	assert.Equal(t, 4, insights.TotalMembers)
	assert.Equal(t, 2, insights.Improved)
	assert.Equal(t, 1, insights.Declined)
	assert.Equal(t, 1, insights.Unchanged)
	assert.InDelta(t, 0.5, insights.ImprovementRate, 1e-9)
	assert.InDelta(t, 0.25, insights.DeclineRate, 1e-9)
	assert.InDelta(t, 11.0, insights.TotalChange, 1e-9)
	assert.InDelta(t, 2.75, insights.AverageChange, 1e-9)

	require.Len(t, insights.TopImprovements, 2)
	assert.Equal(t, "Dora Diaz", insights.TopImprovements[0].Name)
	assert.Equal(t, 10.0, insights.TopImprovements[0].Change)
	assert.Equal(t, "Alice Anderson", insights.TopImprovements[1].Name)

	require.Len(t, insights.TopDeclines, 1)
	assert.Equal(t, "Carol Clark", insights.TopDeclines[0].Name)
	assert.Equal(t, -3.0, insights.TopDeclines[0].Change)
}
