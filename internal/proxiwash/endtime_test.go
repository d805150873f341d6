package proxiwash

import (
	"errors"
	"testing"
	"time"

	"github.com/jaytnw/washwatch/internal/models"
)

func TestEndDate(t *testing.T) {
	now := time.Date(2020, time.January, 14, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endTime string
		want    time.Time
	}{
		{"later today", "23:10", time.Date(2020, time.January, 14, 23, 10, 0, 0, time.UTC)},
		{"half an hour ahead", "15:30", time.Date(2020, time.January, 14, 15, 30, 0, 0, time.UTC)},
		{"earlier today rolls over", "13:10", time.Date(2020, time.January, 15, 13, 10, 0, 0, time.UTC)},
		{"same minute rolls over", "15:00", time.Date(2020, time.January, 15, 15, 0, 0, 0, time.UTC)},
		{"after midnight", "00:30", time.Date(2020, time.January, 15, 0, 30, 0, 0, time.UTC)},
		{"single digit hour", "9:05", time.Date(2020, time.January, 15, 9, 5, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EndDate(tt.endTime, now)
			if !ok {
				t.Fatalf("EndDate(%q) ok=false", tt.endTime)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("EndDate(%q)=%v, want %v", tt.endTime, got, tt.want)
			}
		})
	}
}

func TestEndDate_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2020, time.March, 31, 23, 45, 0, 0, loc)

	got, ok := MachineEndDate(models.MachineRecord{EndTime: "00:15"}, now)
	if !ok {
		t.Fatal("expected a resolved end date")
	}
	want := time.Date(2020, time.April, 1, 0, 15, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEndDate_Unknown(t *testing.T) {
	now := time.Date(2020, time.January, 14, 15, 0, 0, 0, time.UTC)

	for _, in := range []string{"", "1310", "24:00", "12:60", "ab:cd", "12:5", "-1:30", "12:30:00", " : ", "+1:30", "-0:30", "+9:05"} {
		if _, ok := EndDate(in, now); ok {
			t.Errorf("EndDate(%q) ok=true, want unknown", in)
		}
	}
}

func TestParseEndTime(t *testing.T) {
	h, m, err := ParseEndTime("07:45")
	if err != nil || h != 7 || m != 45 {
		t.Fatalf("ParseEndTime=%d,%d,%v", h, m, err)
	}

	for _, in := range []string{"7h45", "+1:30", "-0:30"} {
		if _, _, err := ParseEndTime(in); !errors.Is(err, ErrMalformedTimeField) {
			t.Fatalf("ParseEndTime(%q): expected ErrMalformedTimeField, got %v", in, err)
		}
	}
}
