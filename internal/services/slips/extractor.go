package slips

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"palms-analytics/internal/models"
	"palms-analytics/internal/services/roster"
	"palms-analytics/internal/utils"
)

// Fixed 0-indexed column positions of the slip export layout.
const (
	colGiverName    = 0
	colReceiverName = 1
	colSlipType     = 2
	colTYFCBAmount  = 4
	colDetail       = 6
)

// WithinOrgRule decides whether a TYFCB row records business closed within
// the chapter, given the raw detail/description cell.
type WithinOrgRule func(detail string) bool

// BlankDetailWithinOrg is the default rule: an empty detail cell means the
// business came from within the chapter.
func BlankDetailWithinOrg(detail string) bool {
	return strings.TrimSpace(detail) == ""
}

// ExtractResult carries the typed relation records produced from one or
// more slip files, plus the per-row warnings accumulated along the way.
type ExtractResult struct {
	Referrals []*models.Referral
	Meetings  []*models.OneToOne
	ThankYous []*models.ThankYou
	Warnings  []string
}

// Merge appends another result's records and warnings onto this one.
func (r *ExtractResult) Merge(other *ExtractResult) {
	if other == nil {
		return
	}
	r.Referrals = append(r.Referrals, other.Referrals...)
	r.Meetings = append(r.Meetings, other.Meetings...)
	r.ThankYous = append(r.ThankYous, other.ThankYous...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Extractor walks raw slip rows, resolves names against the roster, and
// emits typed relation records.
type Extractor struct {
	withinOrg WithinOrgRule
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithWithinOrgRule overrides the rule inferring the within-organization
// flag for TYFCB rows.
func WithWithinOrgRule(rule WithinOrgRule) ExtractorOption {
	return func(e *Extractor) {
		if rule != nil {
			e.withinOrg = rule
		}
	}
}

// NewExtractor creates a relation extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{withinOrg: BlankDetailWithinOrg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes one file's raw row grid. Errors are per-row: the row is
// skipped with a warning and processing continues, so this never fails past
// its boundary and always returns three (possibly empty) record lists.
func (e *Extractor) Extract(rows [][]string, members *roster.Roster) *ExtractResult {
	result := &ExtractResult{}

	for i, row := range rows {
		// Row 0 is the header.
		if i == 0 || isEmptyRow(row) {
			continue
		}

		giverName := cellAt(row, colGiverName)
		receiverName := cellAt(row, colReceiverName)
		rawSlipType := cellAt(row, colSlipType)

		if strings.TrimSpace(rawSlipType) == "" {
			continue
		}

		slipType, ok := Classify(rawSlipType)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unrecognized slip type %q", i+1, strings.TrimSpace(rawSlipType)))
			utils.GetLogger().Warn("Unrecognized slip type",
				zap.Int("row", i+1),
				zap.String("slip_type", rawSlipType),
			)
			continue
		}

		switch slipType {
		case SlipTypeTYFCB:
			e.extractThankYou(i, row, giverName, receiverName, members, result)
		case SlipTypeReferral, SlipTypeOneToOne:
			e.extractPairSlip(i, slipType, giverName, receiverName, members, result)
		}
	}

	return result
}

// extractPairSlip handles referral and one-to-one rows, where both names
// are mandatory and must resolve against the roster.
func (e *Extractor) extractPairSlip(rowIdx int, slipType SlipType, giverName, receiverName string, members *roster.Roster, result *ExtractResult) {
	if strings.TrimSpace(giverName) == "" || strings.TrimSpace(receiverName) == "" {
		return
	}

	giver, giverOK := members.Lookup(giverName)
	receiver, receiverOK := members.Lookup(receiverName)
	if !giverOK || !receiverOK {
		return
	}

	switch slipType {
	case SlipTypeReferral:
		referral, err := models.NewReferral(giver, receiver)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid referral: %v", rowIdx+1, err))
			return
		}
		result.Referrals = append(result.Referrals, referral)

	case SlipTypeOneToOne:
		meeting, err := models.NewOneToOne(giver, receiver)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid one-to-one: %v", rowIdx+1, err))
			return
		}
		result.Meetings = append(result.Meetings, meeting)
	}
}

// extractThankYou handles TYFCB rows. Only the receiver is mandatory: the
// giver cell may be legitimately blank for externally-sourced business, and
// an unresolvable giver name downgrades to nil rather than dropping the row.
func (e *Extractor) extractThankYou(rowIdx int, row []string, giverName, receiverName string, members *roster.Roster, result *ExtractResult) {
	if strings.TrimSpace(receiverName) == "" {
		return
	}

	receiver, ok := members.Lookup(receiverName)
	if !ok {
		return
	}

	var giver *models.Member
	if strings.TrimSpace(giverName) != "" {
		giver, _ = members.Lookup(giverName)
	}

	rawAmount := cellAt(row, colTYFCBAmount)
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unparseable TYFCB amount %q, row skipped", rowIdx+1, rawAmount))
		return
	}

	// Zero-amount thank-yous are not recorded.
	if !amount.IsPositive() {
		return
	}

	detail := cellAt(row, colDetail)

	thankYou, err := models.NewThankYou(receiver, giver, amount, e.withinOrg(detail), strings.TrimSpace(detail))
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid TYFCB: %v", rowIdx+1, err))
		return
	}
	result.ThankYous = append(result.ThankYous, thankYou)
}

// ParseAmount parses a currency-formatted cell value into a decimal,
// stripping currency symbols and thousands separators. Empty cells parse
// as zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSpace(s)

	if s == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
