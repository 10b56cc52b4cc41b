package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palms-analytics/internal/models"
	"palms-analytics/internal/services/roster"
)

func testUniverse(t *testing.T, names ...string) []*models.Member {
	t.Helper()
	members := make([]*models.Member, 0, len(names))
	for _, name := range names {
		m, err := models.MemberFromFullName(name)
		require.NoError(t, err)
		members = append(members, m)
	}
	return members
}

func TestNew_ZeroInitialized(t *testing.T) {
	members := testUniverse(t, "Alice Anderson", "Bob Brown", "Carol Clark")
	m := New(members)

	assert.Equal(t, 3, m.Len())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Zero(t, m.At(i, j))
		}
	}
}

func TestIncrementAndGet(t *testing.T) {
	members := testUniverse(t, "Alice Anderson", "Bob Brown")
	m := New(members)

	require.NoError(t, m.Increment(members[0], members[1]))
	require.NoError(t, m.Increment(members[0], members[1]))

	assert.Equal(t, 2, m.Get(members[0], members[1]))
	assert.Equal(t, 0, m.Get(members[1], members[0]))
}

func TestIncrement_UnknownMember(t *testing.T) {
	members := testUniverse(t, "Alice Anderson", "Bob Brown")
	outsider := testUniverse(t, "Zara Unknown")[0]
	m := New(members)

	err := m.Increment(outsider, members[0])
	assert.ErrorIs(t, err, ErrUnknownMember)

	err = m.Increment(members[0], outsider)
	assert.ErrorIs(t, err, ErrUnknownMember)

	// Out-of-universe reads are zero, not a failure.
	assert.Zero(t, m.Get(outsider, members[0]))
}

func TestRowAndColumnTotals(t *testing.T) {
	members := testUniverse(t, "Alice Anderson", "Bob Brown", "Carol Clark")
	m := New(members)

	require.NoError(t, m.Increment(members[0], members[1]))
	require.NoError(t, m.Increment(members[0], members[2]))
	require.NoError(t, m.Increment(members[1], members[2]))

	assert.Equal(t, 2, m.RowTotal(0))
	assert.Equal(t, 0, m.ColumnTotal(0))
	assert.Equal(t, 2, m.ColumnTotal(2))
}

func TestSameUniverse(t *testing.T) {
	a := New(testUniverse(t, "Alice Anderson", "Bob Brown"))
	b := New(testUniverse(t, "Bob Brown", "Alice Anderson"))
	c := New(testUniverse(t, "Alice Anderson"))
	d := New(testUniverse(t, "Alice Anderson", "Carol Clark"))

	assert.True(t, a.SameUniverse(b))
	assert.False(t, a.SameUniverse(c))
	assert.False(t, a.SameUniverse(d))
	assert.False(t, a.SameUniverse(nil))
}

func buildTestRoster(t *testing.T) *roster.Roster {
	t.Helper()
	r, warnings := roster.Build([][]string{
		{"First Name", "Last Name"},
		{"Alice", "Anderson"},
		{"Bob", "Brown"},
		{"Carol", "Clark"},
	})
	require.Empty(t, warnings)
	return r
}

func mustReferral(t *testing.T, r *roster.Roster, giver, receiver string) *models.Referral {
	t.Helper()
	g, ok := r.Lookup(giver)
	require.True(t, ok)
	rcv, ok := r.Lookup(receiver)
	require.True(t, ok)
	ref, err := models.NewReferral(g, rcv)
	require.NoError(t, err)
	return ref
}

func mustMeeting(t *testing.T, r *roster.Roster, a, b string) *models.OneToOne {
	t.Helper()
	ma, ok := r.Lookup(a)
	require.True(t, ok)
	mb, ok := r.Lookup(b)
	require.True(t, ok)
	oto, err := models.NewOneToOne(ma, mb)
	require.NoError(t, err)
	return oto
}

func TestBuildReferralMatrix_Directed(t *testing.T) {
	r := buildTestRoster(t)
	referrals := []*models.Referral{
		mustReferral(t, r, "Alice Anderson", "Bob Brown"),
		mustReferral(t, r, "Alice Anderson", "Bob Brown"),
		mustReferral(t, r, "Bob Brown", "Carol Clark"),
	}

	m := BuildReferralMatrix(r, referrals)

	alice, _ := r.Lookup("Alice Anderson")
	bob, _ := r.Lookup("Bob Brown")
	carol, _ := r.Lookup("Carol Clark")

	assert.Equal(t, 2, m.Get(alice, bob))
	assert.Equal(t, 0, m.Get(bob, alice))
	assert.Equal(t, 1, m.Get(bob, carol))
}

func TestBuildReferralMatrix_RepeatEqualsBatch(t *testing.T) {
	r := buildTestRoster(t)

	ref := mustReferral(t, r, "Alice Anderson", "Bob Brown")
	batch := BuildReferralMatrix(r, []*models.Referral{ref, ref, ref})

	incremental := New(r.Members())
	for i := 0; i < 3; i++ {
		require.NoError(t, incremental.Increment(ref.Giver, ref.Receiver))
	}

	for i := 0; i < batch.Len(); i++ {
		for j := 0; j < batch.Len(); j++ {
			assert.Equal(t, incremental.At(i, j), batch.At(i, j))
		}
	}
}

func TestBuildMeetingMatrix_Symmetric(t *testing.T) {
	r := buildTestRoster(t)
	meetings := []*models.OneToOne{
		mustMeeting(t, r, "Alice Anderson", "Bob Brown"),
		mustMeeting(t, r, "Bob Brown", "Alice Anderson"),
	}

	m := BuildMeetingMatrix(r, meetings)

	alice, _ := r.Lookup("Alice Anderson")
	bob, _ := r.Lookup("Bob Brown")

	assert.Equal(t, 2, m.Get(alice, bob))
	assert.Equal(t, 2, m.Get(bob, alice))
}

func TestStats(t *testing.T) {
	r := buildTestRoster(t)
	referrals := []*models.Referral{
		mustReferral(t, r, "Alice Anderson", "Bob Brown"),
		mustReferral(t, r, "Alice Anderson", "Bob Brown"),
		mustReferral(t, r, "Alice Anderson", "Carol Clark"),
		mustReferral(t, r, "Bob Brown", "Alice Anderson"),
	}

	m := BuildReferralMatrix(r, referrals)
	stats := Stats(m)

	// Roster order is normalized-key order: alice, bob, carol.
	require.Len(t, stats, 3)
	assert.Equal(t, 3, stats[0].TotalGiven)
	assert.Equal(t, 2, stats[0].UniqueGiven)
	assert.Equal(t, 1, stats[0].TotalReceived)
	assert.Equal(t, 1, stats[0].UniqueReceived)

	assert.Equal(t, 1, stats[1].TotalGiven)
	assert.Equal(t, 2, stats[1].TotalReceived)
	assert.Equal(t, 1, stats[1].UniqueReceived)
}

func TestDeriveCombination(t *testing.T) {
	r := buildTestRoster(t)
	referrals := BuildReferralMatrix(r, []*models.Referral{
		mustReferral(t, r, "Alice Anderson", "Bob Brown"),
		mustReferral(t, r, "Alice Anderson", "Carol Clark"),
	})
	meetings := BuildMeetingMatrix(r, []*models.OneToOne{
		mustMeeting(t, r, "Alice Anderson", "Bob Brown"),
	})

	combo, err := DeriveCombination(referrals, meetings)
	require.NoError(t, err)

	alice, _ := r.Lookup("Alice Anderson")
	bob, _ := r.Lookup("Bob Brown")
	carol, _ := r.Lookup("Carol Clark")

	assert.Equal(t, CombinationBoth, combo.Get(alice, bob))
	assert.Equal(t, CombinationReferralOnly, combo.Get(alice, carol))
	assert.Equal(t, CombinationMeetingOnly, combo.Get(bob, alice))
	assert.Equal(t, CombinationNeither, combo.Get(carol, bob))
}

func TestDeriveCombination_Totality(t *testing.T) {
	r := buildTestRoster(t)
	referrals := BuildReferralMatrix(r, []*models.Referral{
		mustReferral(t, r, "Alice Anderson", "Bob Brown"),
	})
	meetings := BuildMeetingMatrix(r, []*models.OneToOne{
		mustMeeting(t, r, "Bob Brown", "Carol Clark"),
	})

	combo, err := DeriveCombination(referrals, meetings)
	require.NoError(t, err)

	// Every cell carries one of the four categories.
	for i := 0; i < combo.Len(); i++ {
		for j := 0; j < combo.Len(); j++ {
			v := combo.At(i, j)
			assert.GreaterOrEqual(t, v, CombinationNeither)
			assert.LessOrEqual(t, v, CombinationBoth)
		}
	}
}

func TestDeriveCombination_UniverseMismatch(t *testing.T) {
	referrals := New(testUniverse(t, "Alice Anderson", "Bob Brown"))
	meetings := New(testUniverse(t, "Alice Anderson", "Carol Clark"))

	_, err := DeriveCombination(referrals, meetings)
	assert.ErrorIs(t, err, ErrUniverseMismatch)
}

func TestCombinationRollup(t *testing.T) {
	r := buildTestRoster(t)
	referrals := BuildReferralMatrix(r, []*models.Referral{
		mustReferral(t, r, "Alice Anderson", "Bob Brown"),
		mustReferral(t, r, "Alice Anderson", "Carol Clark"),
	})
	meetings := BuildMeetingMatrix(r, []*models.OneToOne{
		mustMeeting(t, r, "Alice Anderson", "Bob Brown"),
	})

	combo, err := DeriveCombination(referrals, meetings)
	require.NoError(t, err)

	rollup := CombinationRollup(combo)
	require.Len(t, rollup, 3)

	// Alice's row: bob=both, carol=referral-only, self=neither.
	assert.Equal(t, "Alice Anderson", rollup[0].Member)
	assert.Equal(t, 1, rollup[0].Neither)
	assert.Equal(t, 0, rollup[0].MeetingOnly)
	assert.Equal(t, 1, rollup[0].ReferralOnly)
	assert.Equal(t, 1, rollup[0].Both)

	// Category counts always sum to the universe size.
	for _, s := range rollup {
		assert.Equal(t, 3, s.Neither+s.MeetingOnly+s.ReferralOnly+s.Both)
	}
}
