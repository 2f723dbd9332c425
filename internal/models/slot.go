package models

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02" // YYYY-MM-DD
	HourLayout = "15:04"      // HH:MM, minutes must be zero
)

// SlotKey identifies one bookable (resource, date, hour) unit.
type SlotKey struct {
	ResourceID string
	Date       string
	Hour       int
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s/%02d", k.ResourceID, k.Date, k.Hour)
}

// Less orders keys by resource, date and hour. Locks are taken in this order.
func (k SlotKey) Less(other SlotKey) bool {
	if k.ResourceID != other.ResourceID {
		return k.ResourceID < other.ResourceID
	}
	if k.Date != other.Date {
		return k.Date < other.Date
	}
	return k.Hour < other.Hour
}

// SortKeys sorts keys in lock order and drops duplicates.
func SortKeys(keys []SlotKey) []SlotKey {
	out := make([]SlotKey, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	deduped := out[:0]
	for i, k := range out {
		if i > 0 && k == out[i-1] {
			continue
		}
		deduped = append(deduped, k)
	}
	return deduped
}

// Span is a run of consecutive hours on one resource and date.
type Span struct {
	ResourceID string
	Date       string
	StartHour  int
	Hours      int
}

// EndHour is exclusive.
func (s Span) EndHour() int {
	return s.StartHour + s.Hours
}

func (s Span) Keys() []SlotKey {
	if s.Hours <= 0 {
		return nil
	}
	keys := make([]SlotKey, 0, s.Hours)
	for h := s.StartHour; h < s.EndHour(); h++ {
		keys = append(keys, SlotKey{ResourceID: s.ResourceID, Date: s.Date, Hour: h})
	}
	return keys
}

// Start returns the instant the span begins in loc.
func (s Span) Start(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, s.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(s.StartHour) * time.Hour), nil
}

// ParseDate validates and normalizes a YYYY-MM-DD date.
func ParseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("date is required")
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("date must be formatted as YYYY-MM-DD")
	}
	return parsed.Format(DateLayout), nil
}

// ParseStartTime accepts "18:00" or "18" and returns the hour of day.
func ParseStartTime(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("start_time is required")
	}
	if !strings.Contains(raw, ":") {
		hour, err := strconv.Atoi(raw)
		if err != nil || hour < 0 || hour > 23 {
			return 0, fmt.Errorf("start_time must be an hour between 0 and 23")
		}
		return hour, nil
	}
	parsed, err := time.Parse(HourLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("start_time must be formatted as HH:00")
	}
	if parsed.Minute() != 0 {
		return 0, fmt.Errorf("start_time must fall on the hour")
	}
	return parsed.Hour(), nil
}

// FormatHour renders an hour of day as HH:00.
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// ErrRangeTooLong is returned by DatesBetween for spans over maxDays.
var ErrRangeTooLong = errors.New("range too long")

// DatesBetween lists the dates from..to inclusive. A positive maxDays caps
// the span before any date is built.
func DatesBetween(from, to string, maxDays int) ([]string, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("from must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("to must be formatted as YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("to must not be before from")
	}
	if maxDays > 0 && int(end.Sub(start)/(24*time.Hour))+1 > maxDays {
		return nil, fmt.Errorf("%w: date range must not exceed %d days", ErrRangeTooLong, maxDays)
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}
