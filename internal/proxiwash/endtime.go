package proxiwash

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jaytnw/washwatch/internal/models"
)

var ErrMalformedTimeField = errors.New("malformed time field")

// ParseEndTime parses a 24h "HH:MM" string.
func ParseEndTime(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[1]) != 2 || parts[0] == "" || len(parts[0]) > 2 {
		return 0, 0, ErrMalformedTimeField
	}
	// Atoi accepts a leading sign.
	if !isDigit(parts[0][0]) || !isDigit(parts[1][0]) {
		return 0, 0, ErrMalformedTimeField
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrMalformedTimeField
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrMalformedTimeField
	}
	return hour, minute, nil
}

// EndDate resolves endTime against now. A time of day that is not after now
// belongs to the next calendar day. ok is false when endTime is empty or
// malformed, which callers treat as "do not schedule".
func EndDate(endTime string, now time.Time) (end time.Time, ok bool) {
	hour, minute, err := ParseEndTime(endTime)
	if err != nil {
		return time.Time{}, false
	}

	y, m, d := now.Date()
	end = time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if !end.After(now) {
		end = end.AddDate(0, 0, 1)
	}
	return end, true
}

// MachineEndDate is EndDate applied to a machine's end time.
func MachineEndDate(machine models.MachineRecord, now time.Time) (time.Time, bool) {
	return EndDate(machine.EndTime, now)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
