package proxiwash

import (
	"strconv"
	"strings"
	"time"

	"github.com/jaytnw/washwatch/internal/models"
)

type PrankMode string

const (
	PrankAuto PrankMode = "auto"
	PrankOn   PrankMode = "on"
	PrankOff  PrankMode = "off"
)

// fakeMachineNumbers is indexed by machine number.
var fakeMachineNumbers = [...]string{
	"",
	"cos(ln(1))",
	"0,5⁻¹",
	"567/189",
	"√2×√8",
	"√50×sin(9π/4)",
	"⌈π+e⌉",
	"div(rot(B))+7",
	"4×cosh(0)+4",
	"8-(-i)²",
	"|5√2+5√2i|",
	"1×10¹+1×10⁰",
	"Re(√192e^(iπ/6))",
}

// PrankReorderer shuffles and relabels machines on a single day of the year.
type PrankReorderer struct {
	Month time.Month
	Day   int
	Mode  PrankMode
}

func NewPrankReorderer(mode PrankMode, month time.Month, day int) PrankReorderer {
	if mode == "" {
		mode = PrankAuto
	}
	return PrankReorderer{Month: month, Day: day, Mode: mode}
}

// ParsePrankMode falls back to auto for anything it does not recognise.
func ParsePrankMode(s string) PrankMode {
	switch PrankMode(strings.ToLower(strings.TrimSpace(s))) {
	case PrankOn:
		return PrankOn
	case PrankOff:
		return PrankOff
	default:
		return PrankAuto
	}
}

func (p PrankReorderer) Active(now time.Time) bool {
	switch p.Mode {
	case PrankOn:
		return true
	case PrankOff:
		return false
	}
	return now.Month() == p.Month && now.Day() == p.Day
}

// Apply returns a reordered copy of snap. snap itself is left untouched.
func (p PrankReorderer) Apply(snap models.Snapshot) models.Snapshot {
	return models.Snapshot{
		Dryers:  reorderDryers(snap.Dryers),
		Washers: reorderWashers(snap.Washers),
	}
}

func reorderDryers(dryers []models.MachineRecord) []models.MachineRecord {
	out := make([]models.MachineRecord, 0, len(dryers))
	if len(dryers) < 2 {
		return append(out, dryers...)
	}
	out = append(out, dryers[0])
	out = append(out, dryers[2:]...)
	return append(out, dryers[1])
}

func reorderWashers(washers []models.MachineRecord) []models.MachineRecord {
	out := make([]models.MachineRecord, len(washers))
	copy(out, washers)
	if len(washers) < 9 {
		return out
	}
	// Every slot reads from the original slice.
	out[8] = washers[1]
	out[4] = washers[8]
	out[1] = washers[0]
	out[0] = washers[4]
	return out
}

// DisplayNumber maps a machine number to its cosmetic label. The result is
// for display only and never used to identify a machine.
func DisplayNumber(id string) string {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 || n >= len(fakeMachineNumbers) || fakeMachineNumbers[n] == "" {
		return id
	}
	return fakeMachineNumbers[n]
}
