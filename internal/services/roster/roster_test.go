package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	rows := [][]string{
		{"First Name", "Last Name"},
		{"Alice", "Anderson"},
		{"Bob", "Brown"},
		{"", ""},
		{"Carol", "Clark"},
	}

	r, warnings := Build(rows)
	assert.Empty(t, warnings)
	assert.Equal(t, 3, r.Len())

	// Members come back in normalized-key order.
	members := r.Members()
	require.Len(t, members, 3)
	assert.Equal(t, "aliceanderson", members[0].Key)
	assert.Equal(t, "bobbrown", members[1].Key)
	assert.Equal(t, "carolclark", members[2].Key)
}

func TestBuild_DuplicateKeepsFirst(t *testing.T) {
	rows := [][]string{
		{"First Name", "Last Name"},
		{"Alice", "Anderson"},
		{"ALICE", "  anderson "},
	}

	r, warnings := Build(rows)
	assert.Equal(t, 1, r.Len())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "row 3")
	assert.Contains(t, warnings[0], "duplicate member")

	member, ok := r.Lookup("Alice Anderson")
	require.True(t, ok)
	assert.Equal(t, "Alice", member.FirstName)
}

func TestBuild_HeaderOnlyRoster(t *testing.T) {
	r, warnings := Build([][]string{{"First Name", "Last Name"}})
	assert.Empty(t, warnings)
	assert.Zero(t, r.Len())
}

func TestBuild_ShortRows(t *testing.T) {
	rows := [][]string{
		{"Name"},
		{"Cher"},
		{},
	}

	r, warnings := Build(rows)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, r.Len())

	_, ok := r.Lookup("cher")
	assert.True(t, ok)
}

func TestMerge(t *testing.T) {
	first, _ := Build([][]string{
		{"First Name", "Last Name"},
		{"Alice", "Anderson"},
		{"Bob", "Brown"},
	})
	second, _ := Build([][]string{
		{"First Name", "Last Name"},
		{"Bob", "Brown"},
		{"Carol", "Clark"},
	})

	merged, warnings := Merge(first, second, nil)
	assert.Equal(t, 3, merged.Len())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "across member files")
}

func TestLookup_Normalization(t *testing.T) {
	r, _ := Build([][]string{
		{"First Name", "Last Name"},
		{"Alice", "Anderson"},
	})

	tests := []struct {
		name  string
		found bool
	}{
		{"Alice Anderson", true},
		{"alice anderson", true},
		{"  ALICE   ANDERSON  ", true},
		{"aliceanderson", true},
		{"Alice A", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := r.Lookup(tt.name)
			assert.Equal(t, tt.found, ok)
		})
	}
}
