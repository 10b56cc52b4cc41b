// Package slips normalizes raw slip rows into typed relation records.
package slips

import (
	"strings"
)

// SlipType identifies the canonical category of a slip row.
type SlipType string

const (
	SlipTypeReferral SlipType = "Referral"
	SlipTypeOneToOne SlipType = "One to One"
	SlipTypeTYFCB    SlipType = "TYFCB"
)

// slipTypeSynonyms maps known upper-cased textual variants to their
// canonical category. Source data is manually entered with no format
// enforcement, so abbreviations and hyphenated variants are common.
var slipTypeSynonyms = map[string]SlipType{
	// TYFCB variations
	"TY FCB":                       SlipTypeTYFCB,
	"TY-FCB":                       SlipTypeTYFCB,
	"THANK YOU FCB":                SlipTypeTYFCB,
	"THANK YOU FOR CLOSE BUSINESS": SlipTypeTYFCB,

	// One-to-One variations
	"ONE-TO-ONE": SlipTypeOneToOne,
	"1-TO-1":     SlipTypeOneToOne,
	"1 TO 1":     SlipTypeOneToOne,
	"OTO":        SlipTypeOneToOne,
	"ONE2ONE":    SlipTypeOneToOne,

	// Referral variations
	"REF":       SlipTypeReferral,
	"REFERRALS": SlipTypeReferral,
}

// Classify maps a raw slip-type cell value to a canonical category.
// Matching order: exact match on the canonical string, case-insensitive
// match, then the synonym table. Returns ok=false for unrecognized values;
// it never fails, since malformed input is expected and common.
func Classify(raw string) (SlipType, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	switch trimmed {
	case string(SlipTypeReferral):
		return SlipTypeReferral, true
	case string(SlipTypeOneToOne):
		return SlipTypeOneToOne, true
	case string(SlipTypeTYFCB):
		return SlipTypeTYFCB, true
	}

	upper := strings.ToUpper(trimmed)
	switch upper {
	case strings.ToUpper(string(SlipTypeReferral)):
		return SlipTypeReferral, true
	case strings.ToUpper(string(SlipTypeOneToOne)):
		return SlipTypeOneToOne, true
	case strings.ToUpper(string(SlipTypeTYFCB)):
		return SlipTypeTYFCB, true
	}

	if canonical, ok := slipTypeSynonyms[upper]; ok {
		return canonical, true
	}

	return "", false
}
