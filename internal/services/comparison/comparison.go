// Package comparison aligns two combination-matrix exports by member name
// and computes per-member deltas with trend classification.
package comparison

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Labels of the four required rollup columns in a combination-matrix
// export. Their positions are discovered by scanning the whole grid, not
// assumed fixed, because downstream tooling appends extra columns over time.
const (
	LabelNeither        = "Neither:"
	LabelOTOOnly        = "OTO only:"
	LabelReferralOnly   = "Referral only:"
	LabelOTOAndReferral = "OTO and Referral:"
)

// Labels of the comparison columns appended to the output grid.
const (
	LabelCurrentReferral   = "Current Referral:"
	LabelLastReferral      = "Last Referral:"
	LabelChangeInReferrals = "Change in Referrals:"
	LabelLastNeither       = "Last Neither:"
	LabelChangeInNeither   = "Change in Neither:"
)

// Trend tags a delta as positive, negative, or exactly zero.
type Trend string

const (
	TrendPositive  Trend = "↗️"
	TrendNegative  Trend = "↘️"
	TrendUnchanged Trend = "➡️"
)

// trendOf classifies a change. Only an exact zero counts as unchanged;
// there is no tolerance band.
func trendOf(change float64) Trend {
	switch {
	case change > 0:
		return TrendPositive
	case change < 0:
		return TrendNegative
	}
	return TrendUnchanged
}

// CellRef locates a cell in a grid.
type CellRef struct {
	Row int
	Col int
}

// Headers holds the discovered positions of the four required labels.
type Headers struct {
	Neither        CellRef
	OTOOnly        CellRef
	ReferralOnly   CellRef
	OTOAndReferral CellRef
}

// FindHeaders scans every cell of the grid for exact matches of the four
// required labels. It fails with a descriptive error naming the missing
// labels when not all four are present.
func FindHeaders(grid [][]string) (*Headers, error) {
	found := make(map[string]CellRef, 4)

	for r, row := range grid {
		for c, cell := range row {
			switch cell {
			case LabelNeither, LabelOTOOnly, LabelReferralOnly, LabelOTOAndReferral:
				if _, ok := found[cell]; !ok {
					found[cell] = CellRef{Row: r, Col: c}
				}
			}
		}
	}

	var missing []string
	for _, label := range []string{LabelNeither, LabelOTOOnly, LabelReferralOnly, LabelOTOAndReferral} {
		if _, ok := found[label]; !ok {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required headers not found in snapshot: %s", strings.Join(missing, ", "))
	}

	return &Headers{
		Neither:        found[LabelNeither],
		OTOOnly:        found[LabelOTOOnly],
		ReferralOnly:   found[LabelReferralOnly],
		OTOAndReferral: found[LabelOTOAndReferral],
	}, nil
}

// MemberDelta carries one member's comparison against the prior snapshot.
type MemberDelta struct {
	Name string

	CurrentReferrals float64
	LastReferrals    float64
	ReferralChange   float64
	ReferralTrend    Trend

	CurrentNeither float64
	LastNeither    float64
	NeitherChange  float64
	NeitherTrend   Trend
}

// MemberChange pairs a member name with a referral-activity delta.
type MemberChange struct {
	Name   string
	Change float64
}

// Insights summarizes the comparison across all members.
type Insights struct {
	TotalMembers    int
	Improved        int
	Declined        int
	Unchanged       int
	TopImprovements []MemberChange
	TopDeclines     []MemberChange
	ImprovementRate float64
	DeclineRate     float64
	AverageChange   float64
	TotalChange     float64
}

// Report is the complete result of comparing two snapshots.
type Report struct {
	Deltas   []MemberDelta
	Grid     [][]string
	Insights Insights
}

// Compare aligns the new snapshot against the old one. Both grids must
// carry the four required labels. The returned report holds per-member
// deltas, the new grid with comparison columns appended immediately after
// the "OTO and Referral:" column, and the insight rollup.
func Compare(newGrid, oldGrid [][]string) (*Report, error) {
	newHeaders, err := FindHeaders(newGrid)
	if err != nil {
		return nil, fmt.Errorf("new snapshot: %w", err)
	}
	oldHeaders, err := FindHeaders(oldGrid)
	if err != nil {
		return nil, fmt.Errorf("old snapshot: %w", err)
	}

	// Current referral activity in the prior snapshot, keyed by
	// case-insensitive trimmed member name.
	oldReferrals := make(map[string]float64)
	oldNeither := make(map[string]float64)
	for r := oldHeaders.OTOAndReferral.Row + 1; r < len(oldGrid); r++ {
		name := memberName(oldGrid, r)
		if name == "" {
			continue
		}
		oldReferrals[name] = cellValue(oldGrid, r, oldHeaders.ReferralOnly.Col) + cellValue(oldGrid, r, oldHeaders.OTOAndReferral.Col)
		oldNeither[name] = cellValue(oldGrid, r, oldHeaders.Neither.Col)
	}

	headerRow := newHeaders.OTOAndReferral.Row
	report := &Report{}

	for r := headerRow + 1; r < len(newGrid); r++ {
		name := memberName(newGrid, r)
		if name == "" {
			continue
		}

		delta := MemberDelta{Name: strings.TrimSpace(newGrid[r][0])}
		delta.CurrentReferrals = cellValue(newGrid, r, newHeaders.ReferralOnly.Col) + cellValue(newGrid, r, newHeaders.OTOAndReferral.Col)
		delta.LastReferrals = oldReferrals[name] // missing members default to 0
		delta.ReferralChange = delta.CurrentReferrals - delta.LastReferrals
		delta.ReferralTrend = trendOf(delta.ReferralChange)

		delta.CurrentNeither = cellValue(newGrid, r, newHeaders.Neither.Col)
		delta.LastNeither = oldNeither[name]
		delta.NeitherChange = delta.CurrentNeither - delta.LastNeither
		delta.NeitherTrend = trendOf(delta.NeitherChange)

		report.Deltas = append(report.Deltas, delta)
	}

	report.Grid = buildOutputGrid(newGrid, newHeaders, report.Deltas)
	report.Insights = buildInsights(report.Deltas)

	return report, nil
}

// buildOutputGrid copies the new snapshot and appends the five comparison
// columns right after the "OTO and Referral:" column, overwriting any
// columns downstream tooling may have left there.
func buildOutputGrid(newGrid [][]string, headers *Headers, deltas []MemberDelta) [][]string {
	headerRow := headers.OTOAndReferral.Row
	base := headers.OTOAndReferral.Col
	width := base + 6

	grid := make([][]string, len(newGrid))
	for r, row := range newGrid {
		out := make([]string, max(len(row), width))
		copy(out, row)
		grid[r] = out
	}

	grid[headerRow][base+1] = LabelCurrentReferral
	grid[headerRow][base+2] = LabelLastReferral
	grid[headerRow][base+3] = LabelChangeInReferrals
	grid[headerRow][base+4] = LabelLastNeither
	grid[headerRow][base+5] = LabelChangeInNeither

	byName := make(map[string]MemberDelta, len(deltas))
	for _, d := range deltas {
		byName[strings.ToLower(strings.TrimSpace(d.Name))] = d
	}

	for r := headerRow + 1; r < len(grid); r++ {
		name := memberName(newGrid, r)
		d, ok := byName[name]
		if !ok {
			continue
		}
		grid[r][base+1] = formatValue(d.CurrentReferrals)
		grid[r][base+2] = formatValue(d.LastReferrals)
		grid[r][base+3] = formatChange(d.ReferralChange, d.ReferralTrend)
		grid[r][base+4] = formatValue(d.LastNeither)
		grid[r][base+5] = formatChange(d.NeitherChange, d.NeitherTrend)
	}

	return grid
}

// buildInsights counts improved/declined/unchanged members and picks the
// largest movers. Ties keep input order via stable sort.
func buildInsights(deltas []MemberDelta) Insights {
	insights := Insights{TotalMembers: len(deltas)}

	changes := make([]MemberChange, 0, len(deltas))
	for _, d := range deltas {
		changes = append(changes, MemberChange{Name: d.Name, Change: d.ReferralChange})
		insights.TotalChange += d.ReferralChange

		switch d.ReferralTrend {
		case TrendPositive:
			insights.Improved++
		case TrendNegative:
			insights.Declined++
		default:
			insights.Unchanged++
		}
	}

	descending := make([]MemberChange, len(changes))
	copy(descending, changes)
	sort.SliceStable(descending, func(i, j int) bool {
		return descending[i].Change > descending[j].Change
	})

	insights.TopImprovements = topMovers(descending, 5, true)
	insights.TopDeclines = topMovers(descending, 5, false)

	if insights.TotalMembers > 0 {
		insights.AverageChange = insights.TotalChange / float64(insights.TotalMembers)
		insights.ImprovementRate = float64(insights.Improved) / float64(insights.TotalMembers)
		insights.DeclineRate = float64(insights.Declined) / float64(insights.TotalMembers)
	}

	return insights
}

// topMovers takes up to n entries from the head (positive=true) or tail of
// a descending-sorted change list, keeping only deltas of the wanted sign.
func topMovers(descending []MemberChange, n int, positive bool) []MemberChange {
	var movers []MemberChange

	if positive {
		for _, c := range descending {
			if c.Change <= 0 || len(movers) == n {
				break
			}
			movers = append(movers, c)
		}
		return movers
	}

	for i := len(descending) - 1; i >= 0 && len(movers) < n; i-- {
		if descending[i].Change >= 0 {
			break
		}
		movers = append(movers, descending[i])
	}
	return movers
}

// memberName reads a row's member cell (column 0), normalized for lookup.
func memberName(grid [][]string, row int) string {
	if len(grid[row]) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(grid[row][0]))
}

// cellValue parses a grid cell as a number. Missing or non-numeric cells
// coerce to 0 rather than failing: snapshots come from hand-edited files.
func cellValue(grid [][]string, row, col int) float64 {
	if row >= len(grid) || col >= len(grid[row]) {
		return 0
	}
	s := strings.TrimSpace(grid[row][col])
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// formatValue renders a numeric cell without a trailing fraction when the
// value is integral.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatChange renders a signed delta with its trend glyph, e.g. "+4 ↗️".
func formatChange(change float64, trend Trend) string {
	s := formatValue(change)
	if change > 0 {
		s = "+" + s
	}
	return s + " " + string(trend)
}
