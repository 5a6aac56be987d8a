package arbiter

import (
	"sort"
	"time"

	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

// Reason names why a candidate was held back.
type Reason string

const (
	ReasonQuietHours Reason = "quiet_hours"
	ReasonBudget     Reason = "budget"
	ReasonThreshold  Reason = "threshold"
	ReasonCapacity   Reason = "capacity"
)

// Result is the outcome of one arbitration.
type Result struct {
	Allowed         []Scored
	Suppressed      map[Reason]int
	QuietHours      bool
	BudgetExhausted bool
}

func (r *Result) suppress(reason Reason, n int) {
	if n <= 0 {
		return
	}
	if r.Suppressed == nil {
		r.Suppressed = make(map[Reason]int)
	}
	r.Suppressed[reason] += n
}

// Capacity is the maximum number of interruptions allowed per pass in mode.
func Capacity(mode models.Mode) int {
	switch mode {
	case models.ModeRecovery, models.ModeLowMood:
		return 1
	case models.ModeBusy:
		return 0
	default:
		return 2
	}
}

// Arbitrate decides which candidates may interrupt the user right now.
//
// Nothing is sent during quiet hours. Once the daily budget is used up only
// core items get through, and they bypass scoring and capacity. Otherwise
// candidates must score above InterruptThreshold and are capped at the mode's
// capacity, best first.
func Arbitrate(candidates []models.Occurrence, mode models.Mode, sentToday int, settings models.Settings, now time.Time) Result {
	var res Result

	quiet, err := utils.InQuietHours(now, settings.QuietHoursStart, settings.QuietHoursEnd)
	if err != nil {
		logger.Warn("Ignoring unparseable quiet hours", "error", err)
	}
	if quiet {
		res.QuietHours = true
		res.suppress(ReasonQuietHours, len(candidates))
		return res
	}

	if sentToday >= settings.DailyBudget {
		res.BudgetExhausted = true
		for _, o := range candidates {
			if o.IsCore {
				res.Allowed = append(res.Allowed, Scored{Occurrence: o})
			}
		}
		res.suppress(ReasonBudget, len(candidates)-len(res.Allowed))
		return res
	}

	scored := make([]Scored, 0, len(candidates))
	for _, o := range candidates {
		s := Score(o, mode, now)
		if s > InterruptThreshold {
			scored = append(scored, Scored{Occurrence: o, Score: s})
		}
	}
	res.suppress(ReasonThreshold, len(candidates)-len(scored))

	sort.SliceStable(scored, func(i, j int) bool { return less(scored[i], scored[j]) })

	limit := Capacity(mode)
	if len(scored) > limit {
		res.suppress(ReasonCapacity, len(scored)-limit)
		scored = scored[:limit]
	}
	res.Allowed = scored
	return res
}
