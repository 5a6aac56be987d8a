package scheduler

import (
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

// Anchors holds the biological reference times, in minutes since midnight,
// that wake- and bed-relative templates are resolved against.
type Anchors struct {
	WakeMin int
	BedMin  int
}

// AnchorsFromSettings parses the wake estimate and bed target from settings.
func AnchorsFromSettings(settings models.Settings) (Anchors, error) {
	wake, err := utils.ParseTimeToMinutes(settings.WakeEstimate)
	if err != nil {
		return Anchors{}, fmt.Errorf("invalid wake estimate %q: %w", settings.WakeEstimate, err)
	}
	bed, err := utils.ParseTimeToMinutes(settings.BedTarget)
	if err != nil {
		return Anchors{}, fmt.Errorf("invalid bed target %q: %w", settings.BedTarget, err)
	}
	return Anchors{WakeMin: wake, BedMin: bed}, nil
}

// base returns the anchor position for the day in minutes past its midnight.
// A bed target at or before the wake estimate (e.g. 00:30) belongs to the
// night after the day, so it is pushed forward by a full day.
func (a Anchors) base(anchor models.Anchor) (int, error) {
	switch anchor {
	case models.AnchorWake:
		return a.WakeMin, nil
	case models.AnchorBed:
		if a.BedMin <= a.WakeMin {
			return a.BedMin + 24*60, nil
		}
		return a.BedMin, nil
	case models.AnchorFixed:
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown anchor %q", anchor)
	}
}

// ResolveAnchor converts the template's anchor and offsets into absolute
// start and end instants on day. The arithmetic is done on civil time, so a
// DST transition keeps the wall-clock time rather than the elapsed duration.
func ResolveAnchor(t models.Template, day time.Time, anchors Anchors) (time.Time, time.Time, error) {
	base, err := anchors.base(t.Anchor)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := utils.AtMinutes(day, base+t.StartOffsetMin)
	end := utils.AtMinutes(day, base+t.EndOffsetMin)
	return start, end, nil
}
