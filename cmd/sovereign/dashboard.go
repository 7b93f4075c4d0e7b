package main

import (
	"fmt"
	"io"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

// #region dashboard
func renderHeader(w io.Writer) {
	fmt.Fprintln(w, "Sovereign Debt Simulator")
	fmt.Fprintln(w, "Commodity Exporter Model (Zambia-Style Structure)")
	fmt.Fprintln(w)
}

// renderDashboard prints the indicators rounded to 2 decimals.
func renderDashboard(w io.Writer, s state.EconomicState) {
	fmt.Fprintf(w, "  %-28s %10.2f    %-28s %10.2f\n", "GDP", s.GDP, "External Debt", s.ExternalDebt)
	fmt.Fprintf(w, "  %-28s %10.2f    %-28s %10.2f\n", "FX Reserves", s.FXReserves, "Exchange Rate (LC per USD)", s.ExchangeRate)
	fmt.Fprintf(w, "  %-28s %10.2f    %-28s %10.2f\n", "Inflation (%)", s.Inflation, "Public Approval", s.PublicApproval)
	fmt.Fprintln(w)

	turn := s.Turn
	if turn > engine.Horizon {
		turn = engine.Horizon
	}
	fmt.Fprintf(w, "Year: %d\n", s.Year)
	fmt.Fprintf(w, "Turn: %d of %d\n", turn, engine.Horizon)
	fmt.Fprintf(w, "Commodity Price Index: %g\n", s.CommodityPrice)
	fmt.Fprintln(w, "----------------------------------------")
}

func renderMenu(w io.Writer) {
	fmt.Fprintln(w, "Policy Decision: choose your policy response")
	for i, p := range engine.Policies {
		fmt.Fprintf(w, "  %d) %s\n", i+1, p.Label())
	}
	fmt.Fprintln(w, "  (reset | history | quit)")
}

func renderHistory(w io.Writer, s state.EconomicState) {
	if len(s.History) == 0 {
		fmt.Fprintln(w, "No turns played yet.")
		return
	}
	fmt.Fprintf(w, "  %-6s %10s %10s\n", "Year", "Debt", "GDP")
	for _, h := range s.History {
		fmt.Fprintf(w, "  %-6d %10.2f %10.2f\n", h.Year, h.ExternalDebt, h.GDP)
	}
}

// renderOutcome prints the banner for a finished turn.
func renderOutcome(w io.Writer, r engine.TurnResult) {
	switch r.Status {
	case engine.Default:
		fmt.Fprintln(w, "DEFAULT! The country has run out of foreign reserves.")
		fmt.Fprintln(w, "Type 'reset' to start a new game.")
	case engine.Complete:
		fmt.Fprintf(w, "Commodity shock this turn: %d\n", r.ShockApplied)
		fmt.Fprintln(w, "Simulation Complete!")
		fmt.Fprintln(w, "Type 'reset' to start a new game.")
	default:
		fmt.Fprintf(w, "Commodity shock this turn: %d\n", r.ShockApplied)
	}
}

// #endregion dashboard

// parseChoice maps menu input ("1", "borrow", a full label) to a policy.
func parseChoice(input string) (engine.Policy, error) {
	var n int
	if _, err := fmt.Sscanf(input, "%d", &n); err == nil && fmt.Sprint(n) == input {
		if n < 1 || n > len(engine.Policies) {
			return "", fmt.Errorf("%w: choice %d", engine.ErrUnknownPolicy, n)
		}
		return engine.Policies[n-1], nil
	}
	return engine.ParsePolicy(input)
}
