package arbiter

import (
	"time"

	"github.com/julianstephens/cadence/internal/models"
)

// Score weights.
const (
	weightPriority      = 0.30
	weightUrgency       = 0.25
	weightImportance    = 0.25
	weightActionability = 0.15
	weightUserCost      = 0.30
	weightFatigue       = 0.40
)

const (
	// InterruptThreshold is the score an item must exceed to interrupt.
	InterruptThreshold = 0.65

	anytimeUrgency = 0.5
	minUrgency     = 0.1
)

// Urgency grows from minUrgency toward 1.0 as the occurrence window elapses.
// Items without an end have a flat urgency; overdue items are maximally urgent.
func Urgency(o models.Occurrence, now time.Time) float64 {
	if o.End == nil {
		return anytimeUrgency
	}
	end := *o.End
	if now.After(end) {
		return 1.0
	}

	from := now
	if o.Start != nil {
		from = *o.Start
	}
	total := end.Sub(from)
	if total <= 0 {
		return 1.0
	}
	remaining := end.Sub(now)

	u := 1 - float64(remaining)/float64(total)
	switch {
	case u < minUrgency:
		return minUrgency
	case u > 1.0:
		return 1.0
	}
	return u
}

func priority(o models.Occurrence) float64 {
	if o.IsCore {
		return 1.0
	}
	return 0.4
}

func importance(o models.Occurrence) float64 {
	if o.IsCore {
		return 0.9
	}
	return 0.5
}

func actionability(models.Occurrence) float64 {
	return 1.0
}

// UserCost is the estimated cost of interrupting the user in mode.
func UserCost(mode models.Mode) float64 {
	switch mode {
	case models.ModeRecovery:
		return 0.8
	case models.ModeLowMood:
		return 0.7
	case models.ModeBusy:
		return 0.9
	default:
		return 0.3
	}
}

// Fatigue is the notification fatigue assumed in mode.
func Fatigue(mode models.Mode) float64 {
	if mode == models.ModeRecovery {
		return 0.8
	}
	return 0.2
}

// Score returns the interruption value of o. Larger is more worth sending.
func Score(o models.Occurrence, mode models.Mode, now time.Time) float64 {
	return weightPriority*priority(o) +
		weightUrgency*Urgency(o, now) +
		weightImportance*importance(o) +
		weightActionability*actionability(o) -
		weightUserCost*UserCost(mode) -
		weightFatigue*Fatigue(mode)
}

// Scored pairs an occurrence with its score.
type Scored struct {
	Occurrence models.Occurrence
	Score      float64
}

// less orders by descending score, then earlier start, then id. Items with
// no start sort after timed ones.
func less(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	as, bs := a.Occurrence.Start, b.Occurrence.Start
	switch {
	case as != nil && bs == nil:
		return true
	case as == nil && bs != nil:
		return false
	case as != nil && bs != nil && !as.Equal(*bs):
		return as.Before(*bs)
	}
	return a.Occurrence.ID < b.Occurrence.ID
}
