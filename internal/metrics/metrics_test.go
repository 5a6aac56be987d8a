package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/cadence/internal/models"
)

func TestSetMode(t *testing.T) {
	SetMode(models.ModeLowMood)

	assert.Equal(t, 1.0, testutil.ToFloat64(CurrentMode.WithLabelValues(string(models.ModeLowMood))))
	assert.Equal(t, 0.0, testutil.ToFloat64(CurrentMode.WithLabelValues(string(models.ModeNormal))))

	SetMode(models.ModeNormal)
	assert.Equal(t, 0.0, testutil.ToFloat64(CurrentMode.WithLabelValues(string(models.ModeLowMood))))
	assert.Equal(t, 1.0, testutil.ToFloat64(CurrentMode.WithLabelValues(string(models.ModeNormal))))
}

func TestObservePass(t *testing.T) {
	okBefore := testutil.ToFloat64(PassCount.WithLabelValues("test", "ok"))
	errBefore := testutil.ToFloat64(PassCount.WithLabelValues("test", "error"))

	ObservePass("test", time.Now(), nil)
	ObservePass("test", time.Now(), errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(PassCount.WithLabelValues("test", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(PassCount.WithLabelValues("test", "error")))
}
