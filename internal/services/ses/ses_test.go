package ses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palms-analytics/internal/services/comparison"
)

func summaryParams() SummaryParams {
	return SummaryParams{
		ChapterName: "Downtown Chapter",
		Recipient:   "leadership@example.com",
		RunID:       "run-123",
		Insights: comparison.Insights{
			TotalMembers:    4,
			Improved:        2,
			Declined:        1,
			Unchanged:       1,
			ImprovementRate: 0.5,
			DeclineRate:     0.25,
			AverageChange:   2.75,
			TotalChange:     11,
			TopImprovements: []comparison.MemberChange{
				{Name: "Dora Diaz", Change: 10},
				{Name: "Alice Anderson", Change: 4},
			},
			TopDeclines: []comparison.MemberChange{
				{Name: "Carol Clark", Change: -3},
			},
		},
		ReportURL: "https://example.com/report.csv",
	}
}

func TestRenderSummaryText(t *testing.T) {
	s := &Service{}
	body := s.renderSummaryText(summaryParams())

	assert.Contains(t, body, "Downtown Chapter referral comparison")
	assert.Contains(t, body, "Members compared: 4")
	assert.Contains(t, body, "Improved:  2 (50.0%)")
	assert.Contains(t, body, "Declined:  1 (25.0%)")
	assert.Contains(t, body, "Average change: +2.75 referrals")
	assert.Contains(t, body, "1. Dora Diaz (+10)")
	assert.Contains(t, body, "1. Carol Clark (-3)")
	assert.Contains(t, body, "https://example.com/report.csv")
	assert.Contains(t, body, "Run run-123")
}

func TestRenderSummaryText_OmitsEmptySections(t *testing.T) {
	s := &Service{}
	params := summaryParams()
	params.Insights.TopImprovements = nil
	params.Insights.TopDeclines = nil
	params.ReportURL = ""

	body := s.renderSummaryText(params)
	assert.NotContains(t, body, "Top improvements")
	assert.NotContains(t, body, "Largest declines")
	assert.NotContains(t, body, "Full report")
}

func TestRenderSummaryHTML(t *testing.T) {
	s := &Service{}
	body, err := s.renderSummaryHTML(summaryParams())
	require.NoError(t, err)

	assert.Contains(t, body, "Downtown Chapter Referral Comparison")
	assert.Contains(t, body, "Dora Diaz")
	assert.Contains(t, body, "+10 referrals")
	assert.Contains(t, body, "Carol Clark")
	assert.Contains(t, body, "-3 referrals")
	assert.Contains(t, body, `href="https://example.com/report.csv"`)
	assert.Contains(t, body, "Run run-123")
}
