package eval

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name string
	Pass bool
	Note string
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the outcome of checking one recorded turn.
type EvalResult struct {
	VersionID string
	Turn      int
	Passed    bool
	Metrics   []EvalMetric
	Reason    string
}

// GameReport aggregates the results for a whole recorded game.
type GameReport struct {
	GameID  string
	Checked int
	Failed  int
	Results []EvalResult
}

// Passed reports whether every recorded turn checked out.
func (r GameReport) Passed() bool {
	return r.Failed == 0
}

// #endregion eval-result
