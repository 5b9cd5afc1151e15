package booking

import (
	"strings"
	"time"

	"github.com/Shiggorat/shareit/internal/common/domain"
)

// State is a caller-facing filter over a user's bookings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// States lists every recognized state.
var States = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseState matches s case-insensitively. Unknown values are a BAD_STATE error;
// they never fall back to ALL.
func ParseState(s string) (State, error) {
	st := State(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range States {
		if st == known {
			return st, nil
		}
	}
	return "", domain.NewBadStateError(s)
}

// Role selects which foreign key a listing filters on.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

func (r Role) String() string {
	if r == RoleOwner {
		return "owner"
	}
	return "booker"
}

// Criteria is the set of bounds and the status a booking must satisfy to be listed.
// Zero-valued fields impose no constraint. All time bounds are strict.
type Criteria struct {
	StartBefore *time.Time
	StartAfter  *time.Time
	EndBefore   *time.Time
	EndAfter    *time.Time
	Status      *BookingStatus
}

type classifier func(now time.Time) Criteria

var classifiers = map[State]classifier{
	StateAll: func(time.Time) Criteria { return Criteria{} },
	StateCurrent: func(now time.Time) Criteria {
		return Criteria{StartBefore: &now, EndAfter: &now}
	},
	StatePast: func(now time.Time) Criteria {
		return Criteria{EndBefore: &now}
	},
	StateFuture: func(now time.Time) Criteria {
		return Criteria{StartAfter: &now}
	},
	StateWaiting: func(time.Time) Criteria {
		s := StatusWaiting
		return Criteria{Status: &s}
	},
	StateRejected: func(time.Time) Criteria {
		s := StatusRejected
		return Criteria{Status: &s}
	},
}

// Classify returns the criteria for state evaluated at now.
func Classify(state State, now time.Time) (Criteria, error) {
	fn, ok := classifiers[state]
	if !ok {
		return Criteria{}, domain.NewBadStateError(string(state))
	}
	return fn(now), nil
}

// Matches evaluates the criteria against a booking in memory.
func (c Criteria) Matches(b *Booking) bool {
	if c.StartBefore != nil && !b.Start().Before(*c.StartBefore) {
		return false
	}
	if c.StartAfter != nil && !b.Start().After(*c.StartAfter) {
		return false
	}
	if c.EndBefore != nil && !b.End().Before(*c.EndBefore) {
		return false
	}
	if c.EndAfter != nil && !b.End().After(*c.EndAfter) {
		return false
	}
	if c.Status != nil && b.Status() != *c.Status {
		return false
	}
	return true
}
