package engine

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region rules
const (
	// Horizon is the number of turns in a game.
	Horizon = 8
	// YearsPerTurn is how far the calendar moves on a completed turn.
	YearsPerTurn = 2

	BorrowAmount    = 10.0
	DebtServiceRate = 0.10
)

// #endregion rules

// #region errors
var (
	// ErrInvalidTransition is returned when a turn is requested on a game that
	// already defaulted or completed.
	ErrInvalidTransition = errors.New("transition on terminal state")
	ErrUnknownPolicy     = errors.New("unknown policy")
	ErrInvalidShock      = errors.New("shock outside {-20,-10,0,10,20}")
)

// #endregion errors

// #region policy
// Policy is the player's response for a turn.
type Policy string

const (
	BorrowExternally Policy = "borrow"
	Austerity        Policy = "austerity"
	DoNothing        Policy = "nothing"
)

// Policies lists the choices in menu order.
var Policies = []Policy{BorrowExternally, Austerity, DoNothing}

// Label is the text shown to players.
func (p Policy) Label() string {
	switch p {
	case BorrowExternally:
		return "Borrow $10 externally"
	case Austerity:
		return "Cut spending (Austerity)"
	case DoNothing:
		return "Do nothing"
	default:
		return string(p)
	}
}

// ParsePolicy accepts the canonical name or the player-facing label.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range Policies {
		if s == string(p) || s == p.Label() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// #endregion policy

// #region shock
// Shock is a commodity price perturbation drawn once per turn.
type Shock int

// Shocks is the set a shock is drawn from, uniformly.
var Shocks = []Shock{-20, -10, 0, 10, 20}

// Valid reports whether the shock belongs to the drawable set.
func (s Shock) Valid() bool {
	for _, v := range Shocks {
		if s == v {
			return true
		}
	}
	return false
}

// #endregion shock

// #region status
// Status is the game's position in the turn state machine.
type Status string

const (
	InProgress Status = "in_progress"
	Default    Status = "default"
	Complete   Status = "complete"
)

// Terminal reports whether no further turns are accepted.
func (s Status) Terminal() bool {
	return s == Default || s == Complete
}

// #endregion status

// #region turn-result
// TurnResult bundles everything returned by ApplyTurn.
type TurnResult struct {
	NewState     state.EconomicState
	ShockApplied Shock
	Policy       Policy
	Status       Status
	DebtService  float64
}

// #endregion turn-result
