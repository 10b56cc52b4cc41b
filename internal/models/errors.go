package models

import (
	"errors"
)

// Common errors
var (
	ErrEmptyMemberName = errors.New("member must have at least a first or last name")
	ErrSelfReferral    = errors.New("a member cannot refer to themselves")
	ErrSelfMeeting     = errors.New("a member cannot have a one-to-one with themselves")
	ErrSelfThankYou    = errors.New("a member cannot thank themselves for closed business")
	ErrNegativeAmount  = errors.New("TYFCB amount cannot be negative")
	ErrNilMember       = errors.New("member must not be nil")
)
