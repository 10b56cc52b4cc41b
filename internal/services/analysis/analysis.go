// Package analysis orchestrates a complete chapter activity run: roster
// loading, relation extraction, matrix aggregation, combination derivation,
// and TYFCB rollups. Each run owns its own matrices and roster; there is
// no state shared between runs.
package analysis

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"palms-analytics/internal/models"
	"palms-analytics/internal/services/comparison"
	"palms-analytics/internal/services/matrix"
	"palms-analytics/internal/services/roster"
	"palms-analytics/internal/services/slips"
	"palms-analytics/internal/services/tyfcb"
	"palms-analytics/internal/utils"
)

// Service runs the analysis pipeline.
type Service struct {
	extractor *slips.Extractor
}

// NewService creates an analysis service. Options are forwarded to the
// relation extractor.
func NewService(opts ...slips.ExtractorOption) *Service {
	return &Service{extractor: slips.NewExtractor(opts...)}
}

// RunReport is the structured result of one analysis run.
type RunReport struct {
	models.Report

	RunID string

	Roster *roster.Roster

	Referrals []*models.Referral
	Meetings  []*models.OneToOne
	ThankYous []*models.ThankYou

	ReferralMatrix    *matrix.Matrix
	MeetingMatrix     *matrix.Matrix
	CombinationMatrix *matrix.Matrix

	ReferralStats    []matrix.MemberStats
	MeetingStats     []matrix.MemberStats
	CombinationStats []matrix.CombinationStats

	TYFCBSummary *tyfcb.Summary
}

// Run executes a full analysis over member-list grids and slip grids, one
// grid per source file. A failure loading one slip grid does not abort the
// others; data-quality problems surface as warnings. The returned report
// always carries a success flag plus itemized errors and warnings.
func (s *Service) Run(memberGrids, slipGrids [][][]string) *RunReport {
	start := time.Now()
	report := &RunReport{
		Report: models.NewReport(),
		RunID:  uuid.New().String(),
	}
	defer func() {
		report.ExecutionTime = time.Since(start)
	}()

	logger := utils.GetLogger()

	if len(memberGrids) == 0 {
		report.AddError("no member files provided")
		return report
	}
	if len(slipGrids) == 0 {
		report.AddError("no slip data files provided")
		return report
	}

	// Build the member universe. Duplicate names warn, never fail.
	rosters := make([]*roster.Roster, 0, len(memberGrids))
	for _, grid := range memberGrids {
		r, warnings := roster.Build(grid)
		report.Warnings = append(report.Warnings, warnings...)
		rosters = append(rosters, r)
	}
	members, warnings := roster.Merge(rosters...)
	report.Warnings = append(report.Warnings, warnings...)
	report.Roster = members

	if members.Len() == 0 {
		report.AddError("no valid members found in member files")
		return report
	}

	logger.Info("Roster loaded",
		zap.String("run_id", report.RunID),
		zap.Int("members", members.Len()),
	)

	// Extract relations file by file; each file recovers independently.
	extracted := &slips.ExtractResult{}
	for _, grid := range slipGrids {
		extracted.Merge(s.extractor.Extract(grid, members))
	}
	report.Warnings = append(report.Warnings, extracted.Warnings...)
	report.Referrals = extracted.Referrals
	report.Meetings = extracted.Meetings
	report.ThankYous = extracted.ThankYous

	logger.Info("Relations extracted",
		zap.String("run_id", report.RunID),
		zap.Int("referrals", len(extracted.Referrals)),
		zap.Int("one_to_ones", len(extracted.Meetings)),
		zap.Int("tyfcbs", len(extracted.ThankYous)),
		zap.Int("warnings", len(extracted.Warnings)),
	)

	// Aggregate and derive.
	report.ReferralMatrix = matrix.BuildReferralMatrix(members, extracted.Referrals)
	report.MeetingMatrix = matrix.BuildMeetingMatrix(members, extracted.Meetings)
	report.ReferralStats = matrix.Stats(report.ReferralMatrix)
	report.MeetingStats = matrix.Stats(report.MeetingMatrix)

	combo, err := matrix.DeriveCombination(report.ReferralMatrix, report.MeetingMatrix)
	if err != nil {
		report.AddError("combination derivation failed: %v", err)
		return report
	}
	report.CombinationMatrix = combo
	report.CombinationStats = matrix.CombinationRollup(combo)

	report.TYFCBSummary = tyfcb.Summarize(members, extracted.ThankYous)

	logger.Info("Analysis run complete",
		zap.String("run_id", report.RunID),
		zap.Int("members", members.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return report
}

// ComparisonReport is the structured result of a snapshot comparison.
type ComparisonReport struct {
	models.Report

	Result *comparison.Report
}

// Compare runs the snapshot comparator over two combination-matrix exports
// with the same structured-result surface as Run. Missing headers are a
// fatal error for this operation but never a crash.
func (s *Service) Compare(newGrid, oldGrid [][]string) *ComparisonReport {
	start := time.Now()
	report := &ComparisonReport{Report: models.NewReport()}
	defer func() {
		report.ExecutionTime = time.Since(start)
	}()

	if len(newGrid) == 0 {
		report.AddError("new snapshot is empty")
		return report
	}
	if len(oldGrid) == 0 {
		report.AddError("old snapshot is empty")
		return report
	}

	result, err := comparison.Compare(newGrid, oldGrid)
	if err != nil {
		report.AddError("matrix comparison failed: %v", err)
		return report
	}
	report.Result = result

	utils.GetLogger().Info("Snapshot comparison complete",
		zap.Int("members", result.Insights.TotalMembers),
		zap.Int("improved", result.Insights.Improved),
		zap.Int("declined", result.Insights.Declined),
		zap.Int("unchanged", result.Insights.Unchanged),
	)

	return report
}
