// Package main is the batch runner for chapter activity reports: it loads
// member and slip CSV exports, builds the referral/one-to-one/combination
// matrices and TYFCB summary, and optionally compares against a previous
// snapshot, persists the run, archives the grids, and emails a summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"palms-analytics/internal/config"
	"palms-analytics/internal/services/analysis"
	"palms-analytics/internal/services/database"
	"palms-analytics/internal/services/matrix"
	s3service "palms-analytics/internal/services/s3"
	"palms-analytics/internal/services/ses"
	"palms-analytics/internal/services/slips"
	"palms-analytics/internal/services/tyfcb"
	"palms-analytics/internal/utils"
)

// Exported grid file names under the report directory.
const (
	fileReferralMatrix    = "referral_matrix.csv"
	fileMeetingMatrix     = "oto_matrix.csv"
	fileCombinationMatrix = "combination_matrix.csv"
	fileTYFCBSummary      = "tyfcb_summary.csv"
	fileComparison        = "comparison.csv"
)

func main() {
	memberDir := flag.String("members", "", "directory of member-list CSV files (default from PALMS_MEMBER_DIR)")
	slipsDir := flag.String("slips", "", "directory of slip-audit CSV files (default from PALMS_SLIPS_DIR)")
	outDir := flag.String("out", "", "directory for exported report grids (default from PALMS_REPORT_DIR)")
	oldSnapshot := flag.String("old", "", "previous combination-matrix export to compare against")
	newSnapshot := flag.String("new", "", "combination-matrix export to compare (skips the analysis run)")
	saveDB := flag.Bool("save-db", false, "persist the run summary and TYFCB slips to PostgreSQL")
	upload := flag.Bool("upload", false, "archive exported grids to the snapshot S3 bucket")
	email := flag.Bool("email", false, "email the comparison summary to the configured recipient")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Logger.Sync()

	if *memberDir == "" {
		*memberDir = cfg.MemberDir
	}
	if *slipsDir == "" {
		*slipsDir = cfg.SlipsDir
	}
	if *outDir == "" {
		*outDir = cfg.ReportDir
	}

	ctx := context.Background()
	runner := &app{cfg: cfg, logger: utils.GetLogger()}

	var opts []slips.ExtractorOption
	if !cfg.InferWithinOrgFromDetail {
		opts = append(opts, slips.WithWithinOrgRule(func(string) bool { return true }))
	}
	runner.svc = analysis.NewService(opts...)

	// Compare-only mode: two existing exports, no analysis run.
	if *newSnapshot != "" {
		if *oldSnapshot == "" {
			runner.logger.Fatal("-new requires -old")
		}
		if err := runner.compareFiles(ctx, *newSnapshot, *oldSnapshot, *outDir, *email); err != nil {
			runner.logger.Fatal("Comparison failed", zap.Error(err))
		}
		return
	}

	if err := runner.runAnalysis(ctx, *memberDir, *slipsDir, *outDir, *oldSnapshot, *saveDB, *upload, *email); err != nil {
		runner.logger.Fatal("Analysis run failed", zap.Error(err))
	}
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	svc    *analysis.Service
}

// runAnalysis executes the full pipeline and the requested side effects.
func (a *app) runAnalysis(ctx context.Context, memberDir, slipsDir, outDir, oldSnapshot string, saveDB, upload, email bool) error {
	memberGrids, err := loadGrids(memberDir)
	if err != nil {
		return fmt.Errorf("loading member files: %w", err)
	}
	slipGrids, err := loadGrids(slipsDir)
	if err != nil {
		return fmt.Errorf("loading slip files: %w", err)
	}

	report := a.svc.Run(memberGrids, slipGrids)
	for _, w := range report.Warnings {
		a.logger.Warn("Data quality issue", zap.String("warning", w))
	}
	if !report.Success {
		for _, e := range report.Errors {
			a.logger.Error("Run error", zap.String("error", e))
		}
		return fmt.Errorf("run %s failed with %d errors", report.RunID, len(report.Errors))
	}

	a.logger.Info("Analysis run complete",
		zap.String("runId", report.RunID),
		zap.Int("members", report.Roster.Len()),
		zap.Int("referrals", len(report.Referrals)),
		zap.Int("oneToOnes", len(report.Meetings)),
		zap.Int("tyfcbs", len(report.ThankYous)),
		zap.Duration("executionTime", report.ExecutionTime),
	)

	grids := map[string][][]string{
		fileReferralMatrix:    matrix.ReferralGrid(report.ReferralMatrix),
		fileMeetingMatrix:     matrix.MeetingGrid(report.MeetingMatrix),
		fileCombinationMatrix: matrix.CombinationGrid(report.CombinationMatrix),
		fileTYFCBSummary:      tyfcb.SummaryGrid(report.TYFCBSummary, report.Roster),
	}
	if err := writeGrids(outDir, grids); err != nil {
		return err
	}
	a.logger.Info("Report grids written", zap.String("dir", outDir))

	if saveDB {
		if err := a.persistRun(ctx, report); err != nil {
			return err
		}
	}

	reportURL := ""
	if upload {
		url, err := a.archiveGrids(ctx, report.RunID, grids)
		if err != nil {
			return err
		}
		reportURL = url
	}

	if oldSnapshot != "" {
		oldGrid, err := utils.ReadRowsFile(oldSnapshot)
		if err != nil {
			return fmt.Errorf("loading old snapshot: %w", err)
		}
		if err := a.compare(ctx, grids[fileCombinationMatrix], oldGrid, outDir, report.RunID, reportURL, email); err != nil {
			return err
		}
	}

	return nil
}

// compareFiles compares two combination-matrix exports loaded from disk.
func (a *app) compareFiles(ctx context.Context, newPath, oldPath, outDir string, email bool) error {
	newGrid, err := utils.ReadRowsFile(newPath)
	if err != nil {
		return fmt.Errorf("loading new snapshot: %w", err)
	}
	oldGrid, err := utils.ReadRowsFile(oldPath)
	if err != nil {
		return fmt.Errorf("loading old snapshot: %w", err)
	}
	return a.compare(ctx, newGrid, oldGrid, outDir, "", "", email)
}

func (a *app) compare(ctx context.Context, newGrid, oldGrid [][]string, outDir, runID, reportURL string, email bool) error {
	cmp := a.svc.Compare(newGrid, oldGrid)
	if !cmp.Success {
		for _, e := range cmp.Errors {
			a.logger.Error("Comparison error", zap.String("error", e))
		}
		return fmt.Errorf("comparison failed with %d errors", len(cmp.Errors))
	}

	insights := cmp.Result.Insights
	a.logger.Info("Comparison complete",
		zap.Int("members", insights.TotalMembers),
		zap.Int("improved", insights.Improved),
		zap.Int("declined", insights.Declined),
		zap.Int("unchanged", insights.Unchanged),
		zap.Float64("averageChange", insights.AverageChange),
	)

	if err := writeGrids(outDir, map[string][][]string{fileComparison: cmp.Result.Grid}); err != nil {
		return err
	}

	if email {
		if a.cfg.ReportRecipient == "" {
			return fmt.Errorf("REPORT_RECIPIENT is not configured")
		}
		mailer, err := ses.NewService(ctx, a.cfg)
		if err != nil {
			return err
		}
		result, err := mailer.SendComparisonSummary(ctx, ses.SummaryParams{
			ChapterName: a.cfg.ChapterName,
			Recipient:   a.cfg.ReportRecipient,
			RunID:       runID,
			Insights:    insights,
			ReportURL:   reportURL,
		})
		if err != nil {
			return err
		}
		a.logger.Info("Summary email sent", zap.String("messageId", result.MessageID))
	}

	return nil
}

// persistRun stores the run summary and TYFCB slips in PostgreSQL.
func (a *app) persistRun(ctx context.Context, report *analysis.RunReport) error {
	db, err := database.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	repo := database.NewRunRepository(db)
	record := &database.RunRecord{
		RunID:     report.RunID,
		Members:   report.Roster.Len(),
		Referrals: len(report.Referrals),
		Meetings:  len(report.Meetings),
		ThankYous: len(report.ThankYous),
		Warnings:  len(report.Warnings),
		CreatedAt: time.Now(),
	}
	if err := repo.SaveRun(ctx, record); err != nil {
		return err
	}
	if err := repo.SaveThankYous(ctx, report.RunID, report.ThankYous); err != nil {
		return err
	}

	a.logger.Info("Run persisted", zap.String("runId", report.RunID))
	return nil
}

// archiveGrids uploads the exported grids to S3 and returns a presigned URL
// for the combination matrix, the input of the next comparison.
func (a *app) archiveGrids(ctx context.Context, runID string, grids map[string][][]string) (string, error) {
	archive, err := s3service.NewArchive(ctx)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(grids))
	for name := range grids {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := s3service.SnapshotKey(runID, trimCSVExt(name))
		if err := archive.UploadSnapshot(ctx, key, grids[name]); err != nil {
			return "", fmt.Errorf("uploading %s: %w", name, err)
		}
	}

	presigned, err := archive.PresignedDownloadURL(ctx, s3service.SnapshotKey(runID, trimCSVExt(fileCombinationMatrix)), 60*24)
	if err != nil {
		return "", err
	}

	a.logger.Info("Snapshots archived", zap.String("runId", runID), zap.Int("grids", len(grids)))
	return presigned.URL, nil
}

// loadGrids reads every CSV file in dir, sorted by name for deterministic
// runs. An empty file is skipped with a warning rather than aborting.
func loadGrids(dir string) ([][][]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	grids := make([][][]string, 0, len(paths))
	for _, path := range paths {
		rows, err := utils.ReadRowsFile(path)
		if err != nil {
			utils.Logger.Warn("Skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}
		grids = append(grids, rows)
	}
	return grids, nil
}

func writeGrids(outDir string, grids map[string][][]string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	for name, grid := range grids {
		if err := utils.WriteRowsFile(filepath.Join(outDir, name), grid); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

func trimCSVExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
