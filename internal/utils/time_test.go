package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone Europe/London", timezone: "Europe/London"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:30", 450, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"7am", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeToMinutes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeToMinutes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{
		0:    "00:00",
		450:  "07:30",
		1439: "23:59",
		1440: "00:00",
		-30:  "23:30",
		1500: "01:00",
	}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestAtMinutes(t *testing.T) {
	day := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)

	got := AtMinutes(day, 8*60)
	if want := time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("AtMinutes(08:00) = %v, want %v", got, want)
	}

	got = AtMinutes(day, -30)
	if want := time.Date(2026, 1, 13, 23, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("AtMinutes(-30) = %v, want %v", got, want)
	}

	got = AtMinutes(day, 25*60)
	if want := time.Date(2026, 1, 15, 1, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("AtMinutes(25:00) = %v, want %v", got, want)
	}
}

func TestDateRange(t *testing.T) {
	dates, err := DateRange("2026-01-30", "2026-02-02")
	if err != nil {
		t.Fatalf("DateRange failed: %v", err)
	}
	want := []string{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"}
	if len(dates) != len(want) {
		t.Fatalf("got %v, want %v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i], want[i])
		}
	}

	if _, err := DateRange("bad", "2026-01-01"); err == nil {
		t.Error("expected error for bad start")
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2026-03-01", -1)
	if err != nil || got != "2026-02-28" {
		t.Errorf("AddDays = %q, %v", got, err)
	}
}

func TestInQuietHours(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 1, 14, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		now        time.Time
		start, end string
		want       bool
	}{
		{"wrap: 02:00 inside", at(2, 0), "23:00", "07:00", true},
		{"wrap: 12:00 outside", at(12, 0), "23:00", "07:00", false},
		{"wrap: start is inclusive", at(23, 0), "23:00", "07:00", true},
		{"wrap: end is exclusive", at(7, 0), "23:00", "07:00", false},
		{"wrap: just before end", at(6, 59), "23:00", "07:00", true},
		{"same day: inside", at(13, 30), "13:00", "15:00", true},
		{"same day: end exclusive", at(15, 0), "13:00", "15:00", false},
		{"same day: before", at(12, 59), "13:00", "15:00", false},
		{"empty window", at(13, 0), "13:00", "13:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InQuietHours(tt.now, tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("InQuietHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInQuietHours_FailsOpen(t *testing.T) {
	now := time.Date(2026, 1, 14, 2, 0, 0, 0, time.UTC)
	inQuiet, err := InQuietHours(now, "late", "07:00")
	if err == nil {
		t.Error("expected parse error")
	}
	if inQuiet {
		t.Error("unparseable quiet hours must not suppress notifications")
	}

	inQuiet, err = InQuietHours(now, "23:00", "")
	if err == nil || inQuiet {
		t.Errorf("expected fail-open with error, got %v, %v", inQuiet, err)
	}
}
