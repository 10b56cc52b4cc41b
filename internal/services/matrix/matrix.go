// Package matrix builds dense member-pair count matrices and the derived
// combination classification from relation records.
package matrix

import (
	"errors"
	"fmt"

	"palms-analytics/internal/models"
)

// Matrix errors
var (
	ErrUniverseMismatch = errors.New("matrices are defined over different member universes")
	ErrUnknownMember    = errors.New("member is not part of the matrix universe")
)

// Matrix maps ordered (giver, receiver) member pairs to non-negative counts.
// It is a dense square table over a fixed member universe: every pair starts
// at zero, including self-pairs, which are never populated. Cells are
// addressed through a member-key index so access is O(1).
type Matrix struct {
	members []*models.Member
	index   map[string]int
	cells   [][]int
}

// New creates a zero-initialized square matrix over the given universe.
// The member order is preserved as the row/column order.
func New(members []*models.Member) *Matrix {
	m := &Matrix{
		members: members,
		index:   make(map[string]int, len(members)),
		cells:   make([][]int, len(members)),
	}
	for i, member := range members {
		m.index[member.Key] = i
		m.cells[i] = make([]int, len(members))
	}
	return m
}

// Members returns the matrix universe in row order.
func (m *Matrix) Members() []*models.Member {
	return m.members
}

// Len returns the number of members in the universe.
func (m *Matrix) Len() int {
	return len(m.members)
}

// Get returns the count for the (giver, receiver) pair. Members outside
// the universe read as zero.
func (m *Matrix) Get(giver, receiver *models.Member) int {
	gi, gok := m.index[giver.Key]
	ri, rok := m.index[receiver.Key]
	if !gok || !rok {
		return 0
	}
	return m.cells[gi][ri]
}

// At returns the count at the given row/column indices.
func (m *Matrix) At(row, col int) int {
	return m.cells[row][col]
}

// Increment adds one to the (giver, receiver) cell.
func (m *Matrix) Increment(giver, receiver *models.Member) error {
	gi, gok := m.index[giver.Key]
	ri, rok := m.index[receiver.Key]
	if !gok {
		return fmt.Errorf("%w: %s", ErrUnknownMember, giver.FullName())
	}
	if !rok {
		return fmt.Errorf("%w: %s", ErrUnknownMember, receiver.FullName())
	}
	m.cells[gi][ri]++
	return nil
}

// set assigns a cell by index. Used by the combination deriver.
func (m *Matrix) set(row, col, value int) {
	m.cells[row][col] = value
}

// SameUniverse reports whether both matrices are defined over exactly the
// same member set.
func (m *Matrix) SameUniverse(other *Matrix) bool {
	if other == nil || len(m.members) != len(other.members) {
		return false
	}
	for key := range m.index {
		if _, ok := other.index[key]; !ok {
			return false
		}
	}
	return true
}

// RowTotal sums a member's row (counts given).
func (m *Matrix) RowTotal(row int) int {
	total := 0
	for _, v := range m.cells[row] {
		total += v
	}
	return total
}

// ColumnTotal sums a member's column (counts received).
func (m *Matrix) ColumnTotal(col int) int {
	total := 0
	for row := range m.cells {
		total += m.cells[row][col]
	}
	return total
}
