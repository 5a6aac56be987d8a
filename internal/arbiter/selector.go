package arbiter

import (
	"time"

	"github.com/julianstephens/cadence/internal/models"
)

// Lookahead is how far ahead the next-important selector looks in mode.
func Lookahead(mode models.Mode) time.Duration {
	switch mode {
	case models.ModeRecovery, models.ModeBusy:
		return 12 * time.Hour
	default:
		return 6 * time.Hour
	}
}

// SelectNext picks the single most important pending occurrence starting
// within the lookahead window. It ignores the budget and quiet hours.
func SelectNext(occs []models.Occurrence, mode models.Mode, now time.Time) (Scored, bool) {
	horizon := now.Add(Lookahead(mode))

	var best Scored
	found := false
	for _, o := range occs {
		if o.Status != models.StatusPending || o.Start == nil {
			continue
		}
		if o.Start.Before(now) || o.Start.After(horizon) {
			continue
		}
		c := Scored{Occurrence: o, Score: Score(o, mode, now)}
		if !found || less(c, best) {
			best = c
			found = true
		}
	}
	return best, found
}
