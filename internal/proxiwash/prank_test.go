package proxiwash

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jaytnw/washwatch/internal/models"
)

func numbered(n int) []models.MachineRecord {
	out := make([]models.MachineRecord, n)
	for i := range out {
		out[i] = models.MachineRecord{ID: strconv.Itoa(i)}
	}
	return out
}

func ids(machines []models.MachineRecord) []string {
	out := make([]string, len(machines))
	for i, m := range machines {
		out[i] = m.ID
	}
	return out
}

func TestPrankApply_Washers(t *testing.T) {
	p := NewPrankReorderer(PrankOn, time.April, 1)
	washers := numbered(9)

	got := p.Apply(models.Snapshot{Washers: washers})

	want := []string{"4", "0", "2", "3", "8", "5", "6", "7", "1"}
	if diff := cmp.Diff(want, ids(got.Washers)); diff != "" {
		t.Fatalf("washer order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}, ids(washers)); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestPrankApply_WashersLongerList(t *testing.T) {
	got := reorderWashers(numbered(11))

	want := []string{"4", "0", "2", "3", "8", "5", "6", "7", "1", "9", "10"}
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Fatalf("washer order mismatch (-want +got):\n%s", diff)
	}
}

func TestPrankApply_Dryers(t *testing.T) {
	p := NewPrankReorderer(PrankOn, time.April, 1)

	got := p.Apply(models.Snapshot{Dryers: numbered(5)})

	want := []string{"0", "2", "3", "4", "1"}
	if diff := cmp.Diff(want, ids(got.Dryers)); diff != "" {
		t.Fatalf("dryer order mismatch (-want +got):\n%s", diff)
	}
}

func TestPrankApply_ShortLists(t *testing.T) {
	got := NewPrankReorderer(PrankOn, time.April, 1).Apply(models.Snapshot{
		Dryers:  numbered(1),
		Washers: numbered(5),
	})

	if diff := cmp.Diff([]string{"0"}, ids(got.Dryers)); diff != "" {
		t.Fatalf("dryers (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0", "1", "2", "3", "4"}, ids(got.Washers)); diff != "" {
		t.Fatalf("washers (-want +got):\n%s", diff)
	}
}

func TestPrankActive(t *testing.T) {
	aprilFirst := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)
	otherDay := time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		mode PrankMode
		now  time.Time
		want bool
	}{
		{PrankAuto, aprilFirst, true},
		{PrankAuto, otherDay, false},
		{PrankOn, otherDay, true},
		{PrankOff, aprilFirst, false},
	}
	for _, tt := range tests {
		p := NewPrankReorderer(tt.mode, time.April, 1)
		if got := p.Active(tt.now); got != tt.want {
			t.Errorf("Active(%s, %s)=%v, want %v", tt.mode, tt.now.Format("01-02"), got, tt.want)
		}
	}
}

func TestParsePrankMode(t *testing.T) {
	for in, want := range map[string]PrankMode{"ON": PrankOn, "off": PrankOff, "": PrankAuto, "maybe": PrankAuto} {
		if got := ParsePrankMode(in); got != want {
			t.Errorf("ParsePrankMode(%q)=%s, want %s", in, got, want)
		}
	}
}

func TestDisplayNumber(t *testing.T) {
	tests := map[string]string{
		"1":  "cos(ln(1))",
		"8":  "4×cosh(0)+4",
		"12": "Re(√192e^(iπ/6))",
		"0":  "0",
		"13": "13",
		"x":  "x",
	}
	for in, want := range tests {
		if got := DisplayNumber(in); got != want {
			t.Errorf("DisplayNumber(%q)=%q, want %q", in, got, want)
		}
	}
}
