package matrix

// Combination categories. Each directed member pair is classified by the
// presence of referral and/or one-to-one activity.
const (
	CombinationNeither      = 0
	CombinationMeetingOnly  = 1
	CombinationReferralOnly = 2
	CombinationBoth         = 3
)

// CombinationStats counts the occurrences of each category across one
// member's row of the combination matrix.
type CombinationStats struct {
	Member       string
	Neither      int
	MeetingOnly  int
	ReferralOnly int
	Both         int
}

// DeriveCombination computes the combination matrix from a referral matrix
// and a meeting matrix. Both inputs must share an identical member
// universe; a mismatch is a fatal consistency error, never silently patched.
func DeriveCombination(referrals, meetings *Matrix) (*Matrix, error) {
	if !referrals.SameUniverse(meetings) {
		return nil, ErrUniverseMismatch
	}

	combo := New(referrals.Members())
	n := combo.Len()

	for g := 0; g < n; g++ {
		for r := 0; r < n; r++ {
			hasReferral := referrals.At(g, r) > 0
			hasMeeting := meetings.At(g, r) > 0

			switch {
			case hasReferral && hasMeeting:
				combo.set(g, r, CombinationBoth)
			case hasReferral:
				combo.set(g, r, CombinationReferralOnly)
			case hasMeeting:
				combo.set(g, r, CombinationMeetingOnly)
			default:
				combo.set(g, r, CombinationNeither)
			}
		}
	}

	return combo, nil
}

// CombinationRollup counts each category across every member's row.
func CombinationRollup(combo *Matrix) []CombinationStats {
	stats := make([]CombinationStats, combo.Len())

	for i, member := range combo.Members() {
		s := CombinationStats{Member: member.FullName()}
		for j := 0; j < combo.Len(); j++ {
			switch combo.At(i, j) {
			case CombinationNeither:
				s.Neither++
			case CombinationMeetingOnly:
				s.MeetingOnly++
			case CombinationReferralOnly:
				s.ReferralOnly++
			case CombinationBoth:
				s.Both++
			}
		}
		stats[i] = s
	}

	return stats
}
