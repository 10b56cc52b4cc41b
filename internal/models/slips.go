package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Referral is a directed introduction from one member to another.
type Referral struct {
	Giver       *Member
	Receiver    *Member
	Date        *time.Time
	Amount      *decimal.Decimal
	Description string
}

// NewReferral creates a referral. Giver and receiver must be distinct members.
func NewReferral(giver, receiver *Member) (*Referral, error) {
	if giver == nil || receiver == nil {
		return nil, ErrNilMember
	}
	if giver.Equal(receiver) {
		return nil, ErrSelfReferral
	}
	return &Referral{Giver: giver, Receiver: receiver}, nil
}

func (r *Referral) String() string {
	return fmt.Sprintf("Referral from %s to %s", r.Giver.FullName(), r.Receiver.FullName())
}

// OneToOne is an undirected pairwise meeting between two members.
// Participants are stored in canonical order (lexicographic by normalized
// key) so (A,B) and (B,A) collapse to one representation.
type OneToOne struct {
	MemberA *Member
	MemberB *Member
	Date    *time.Time
	Notes   string
}

// NewOneToOne creates a one-to-one meeting between two distinct members.
func NewOneToOne(a, b *Member) (*OneToOne, error) {
	if a == nil || b == nil {
		return nil, ErrNilMember
	}
	if a.Equal(b) {
		return nil, ErrSelfMeeting
	}
	if a.Key > b.Key {
		a, b = b, a
	}
	return &OneToOne{MemberA: a, MemberB: b}, nil
}

// Involves reports whether the given member participates in this meeting.
func (o *OneToOne) Involves(m *Member) bool {
	return o.MemberA.Equal(m) || o.MemberB.Equal(m)
}

// Counterpart returns the other participant, or nil when m is not involved.
func (o *OneToOne) Counterpart(m *Member) *Member {
	switch {
	case o.MemberA.Equal(m):
		return o.MemberB
	case o.MemberB.Equal(m):
		return o.MemberA
	}
	return nil
}

func (o *OneToOne) String() string {
	return fmt.Sprintf("One-to-One between %s and %s", o.MemberA.FullName(), o.MemberB.FullName())
}

// ThankYou is a TYFCB (thank you for closed business) slip. The receiver is
// required; the giver is optional because source rows may omit the
// originator when the business came from outside the chapter.
type ThankYou struct {
	Receiver    *Member
	Giver       *Member // nil when the source row has no resolvable giver
	Amount      decimal.Decimal
	WithinOrg   bool
	Description string
}

// NewThankYou creates a TYFCB slip. Amount must be non-negative and the
// giver, when present, must differ from the receiver.
func NewThankYou(receiver, giver *Member, amount decimal.Decimal, withinOrg bool, description string) (*ThankYou, error) {
	if receiver == nil {
		return nil, ErrNilMember
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if giver != nil && giver.Equal(receiver) {
		return nil, ErrSelfThankYou
	}
	return &ThankYou{
		Receiver:    receiver,
		Giver:       giver,
		Amount:      amount,
		WithinOrg:   withinOrg,
		Description: description,
	}, nil
}

func (t *ThankYou) String() string {
	origin := "within chapter"
	if !t.WithinOrg {
		origin = "outside chapter"
	}
	giver := "unknown"
	if t.Giver != nil {
		giver = t.Giver.FullName()
	}
	return fmt.Sprintf("TYFCB from %s to %s: $%s (%s)", giver, t.Receiver.FullName(), t.Amount.StringFixed(2), origin)
}
