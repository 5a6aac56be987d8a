package arbiter

import (
	"sort"
	"time"

	"github.com/julianstephens/cadence/internal/models"
)

const (
	recoveryAdherenceFloor  = 0.4
	recoveryMissedCoreCount = 2
	lowMoodSnoozeCount      = 3
)

// CalculateMode maps behavioural signals to an operating mode. The checks
// are ordered: recovery beats low mood, which beats busy.
func CalculateMode(adherenceRate float64, consecutiveSnoozes, missedCoreCount int, isBusy bool) models.Mode {
	switch {
	case missedCoreCount >= recoveryMissedCoreCount || adherenceRate < recoveryAdherenceFloor:
		return models.ModeRecovery
	case consecutiveSnoozes >= lowMoodSnoozeCount:
		return models.ModeLowMood
	case isBusy:
		return models.ModeBusy
	default:
		return models.ModeNormal
	}
}

// Signals are the inputs to CalculateMode.
type Signals struct {
	AdherenceRate      float64
	ConsecutiveSnoozes int
	MissedCoreCount    int
	Busy               bool
}

// Mode evaluates the signals.
func (s Signals) Mode() models.Mode {
	return CalculateMode(s.AdherenceRate, s.ConsecutiveSnoozes, s.MissedCoreCount, s.Busy)
}

// DeriveSignals summarizes occurrence history as seen at now. Adherence is
// done over resolved items and is 1.0 when nothing has resolved yet. Open
// items that were created after their window had already closed are
// ignored; the user never had a chance to act on them.
func DeriveSignals(history []models.Occurrence, busy bool, now time.Time) Signals {
	sig := Signals{AdherenceRate: 1.0, Busy: busy}

	var resolved, done int
	var recent []models.Occurrence
	for i := range history {
		o := history[i]
		if backfilled(o) {
			continue
		}
		if o.Resolved(now) {
			resolved++
			if o.Status == models.StatusDone {
				done++
			}
		}
		if o.IsCore && o.Missed(now) {
			sig.MissedCoreCount++
		}
		if o.Resolved(now) || o.Status == models.StatusSnoozed {
			recent = append(recent, o)
		}
	}
	if resolved > 0 {
		sig.AdherenceRate = float64(done) / float64(resolved)
	}

	sort.SliceStable(recent, func(i, j int) bool {
		a, b := activityTime(recent[i]), activityTime(recent[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	for _, o := range recent {
		if o.Status != models.StatusSnoozed {
			break
		}
		sig.ConsecutiveSnoozes++
	}

	return sig
}

func backfilled(o models.Occurrence) bool {
	open := o.Status == models.StatusPending || o.Status == models.StatusSnoozed
	return open && o.End != nil && !o.CreatedAt.IsZero() && o.CreatedAt.After(*o.End)
}

func activityTime(o models.Occurrence) time.Time {
	if o.Start != nil {
		return *o.Start
	}
	return o.UpdatedAt
}
