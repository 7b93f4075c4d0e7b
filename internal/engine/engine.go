package engine

import (
	"fmt"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region status-of
// StatusOf derives the game status from a snapshot. A state that has not
// defaulted always holds positive reserves, so reserves at or below zero
// can only come from a defaulting turn.
func StatusOf(s state.EconomicState) Status {
	switch {
	case s.Turn > Horizon:
		return Complete
	case s.FXReserves <= 0:
		return Default
	default:
		return InProgress
	}
}

// #endregion status-of

// #region apply-turn
// ApplyTurn is a pure function that computes the next snapshot from the
// current one, the player's policy and the drawn shock. The input state is
// never modified.
func ApplyTurn(current state.EconomicState, policy Policy, shock Shock) (TurnResult, error) {
	if status := StatusOf(current); status.Terminal() {
		return TurnResult{}, fmt.Errorf("%w: game is %s", ErrInvalidTransition, status)
	}
	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return TurnResult{}, err
	}
	if !shock.Valid() {
		return TurnResult{}, fmt.Errorf("%w: %d", ErrInvalidShock, shock)
	}

	next := current.Clone()

	// 1. Commodity shock
	applyShock(&next, shock)

	// 2. Policy response
	applyPolicy(&next, policy)

	// 3. Debt service on post-policy debt
	debtService := next.ExternalDebt * DebtServiceRate
	next.FXReserves -= debtService

	// 4. History uses the pre-advance year
	next.History = append(next.History, state.HistoryEntry{
		Year:         next.Year,
		ExternalDebt: next.ExternalDebt,
		GDP:          next.GDP,
	})

	result := TurnResult{
		NewState:     next,
		ShockApplied: shock,
		Policy:       policy,
		DebtService:  debtService,
	}

	// 5. Default: time does not advance
	if next.FXReserves <= 0 {
		result.Status = Default
		return result, nil
	}

	// 6. Advance
	result.NewState.Year += YearsPerTurn
	result.NewState.Turn++
	result.Status = InProgress
	if result.NewState.Turn > Horizon {
		result.Status = Complete
	}
	return result, nil
}

// #endregion apply-turn

// #region effects
func applyShock(s *state.EconomicState, shock Shock) {
	s.CommodityPrice += float64(shock)

	switch {
	case shock < 0:
		s.FXReserves -= 5
		s.GDP -= 5
		s.ExchangeRate *= 1.15
		s.Inflation += 3
		s.PublicApproval -= 4
	case shock > 0:
		s.FXReserves += 5
		s.GDP += 5
		s.ExchangeRate *= 0.95
		s.Inflation -= 1
		s.PublicApproval += 2
	}
}

func applyPolicy(s *state.EconomicState, policy Policy) {
	switch policy {
	case BorrowExternally:
		s.ExternalDebt += BorrowAmount
		s.FXReserves += BorrowAmount
		s.PublicApproval += 2
	case Austerity:
		s.GDP -= 3
		s.PublicApproval -= 6
		s.ExternalDebt -= 2
	case DoNothing:
	}
}

// #endregion effects
