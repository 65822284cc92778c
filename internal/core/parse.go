package core

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Limits holds the numeric validation ranges for the questionnaire parsers.
// They are plain policy constants; DefaultLimits carries the values used in
// the field study and callers may supply their own.
type Limits struct {
	MinWeeks, MaxWeeks         int
	MinSystolic, MaxSystolic   int
	MinDiastolic, MaxDiastolic int
	MinWeightKg, MaxWeightKg   float64
	MinHeightM, MaxHeightM     float64
	MinAge, MaxAge             int
	MinVisits, MaxVisits       int
}

// DefaultLimits is the validation policy used unless overridden.
var DefaultLimits = Limits{
	MinWeeks: 0, MaxWeeks: 45,
	MinSystolic: 60, MaxSystolic: 260,
	MinDiastolic: 30, MaxDiastolic: 180,
	MinWeightKg: 30, MaxWeightKg: 250,
	MinHeightM: 1.3, MaxHeightM: 2.2,
	MinAge: 10, MaxAge: 60,
	MinVisits: 0, MaxVisits: 50,
}

var (
	bpRE  = regexp.MustCompile(`(\d{2,3})\s*/\s*(\d{1,3})`)
	numRE = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

// dateLayouts are the accepted day-first calendar forms for the last
// menstrual period.  Partial or ambiguous dates are rejected, not guessed.
var dateLayouts = []string{
	"02/01/2006", "2/1/2006",
	"02-01-2006", "2-1-2006",
	"02.01.2006", "2.1.2006",
}

// ParseWeeksOrDate interprets the gestational-age answer: either a bare
// number of weeks or a day-first calendar date, in which case the weeks are
// derived from the elapsed days up to today.  Returns nil when the text is
// neither, or when the resulting weeks fall outside the valid range.
func (l Limits) ParseWeeksOrDate(text string, today time.Time) *int {
	text = strings.TrimSpace(text)
	if w, err := strconv.Atoi(text); err == nil {
		if l.MinWeeks <= w && w <= l.MaxWeeks {
			return &w
		}
		return nil
	}
	var dt time.Time
	var ok bool
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			dt, ok = parsed, true
			break
		}
	}
	if !ok {
		return nil
	}
	days := int(today.Truncate(24*time.Hour).Sub(dt) / (24 * time.Hour))
	weeks := days / 7
	if days >= 0 && l.MinWeeks <= weeks && weeks <= l.MaxWeeks {
		return &weeks
	}
	return nil
}

// ParseBloodPressure accepts "12x8", "12/8", "12 8" or "120/80".  When both
// numbers are below 30 they are taken as shorthand and multiplied by ten.
// Both values must fall in their valid ranges or the pair is rejected.
func (l Limits) ParseBloodPressure(text string) (sys, dia int, ok bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, ",", ".")
	t = strings.ReplaceAll(t, "x", "/")
	t = strings.ReplaceAll(t, " ", "/")
	m := bpRE.FindStringSubmatch(t)
	if m == nil {
		return 0, 0, false
	}
	s, err1 := strconv.Atoi(m[1])
	d, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if s < 30 && d < 30 {
		s *= 10
		d *= 10
	}
	if l.MinSystolic <= s && s <= l.MaxSystolic && l.MinDiastolic <= d && d <= l.MaxDiastolic {
		return s, d, true
	}
	return 0, 0, false
}

// ParseWeightKg extracts the first decimal number (comma or dot separator)
// and validates it as a weight in kilograms, rounded to one decimal.
func (l Limits) ParseWeightKg(text string) *float64 {
	w, ok := firstNumber(text)
	if !ok || w < l.MinWeightKg || w > l.MaxWeightKg {
		return nil
	}
	w = math.Round(w*10) / 10
	return &w
}

// ParseHeightM extracts the first decimal number and validates it as a
// height in metres, rounded to two decimals.
func (l Limits) ParseHeightM(text string) *float64 {
	h, ok := firstNumber(text)
	if !ok || h < l.MinHeightM || h > l.MaxHeightM {
		return nil
	}
	h = math.Round(h*100) / 100
	return &h
}

// ParseAge validates an integer age in years.
func (l Limits) ParseAge(text string) *int {
	return parseIntInRange(text, l.MinAge, l.MaxAge)
}

// ParseVisitCount validates an integer count of prenatal visits.
func (l Limits) ParseVisitCount(text string) *int {
	return parseIntInRange(text, l.MinVisits, l.MaxVisits)
}

func parseIntInRange(text string, lo, hi int) *int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < lo || n > hi {
		return nil
	}
	return &n
}

func firstNumber(text string) (float64, bool) {
	t := strings.ReplaceAll(strings.ToLower(text), ",", ".")
	m := numRE.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseMultiSelect splits a comma/semicolon-separated answer into a sorted,
// deduplicated id set.  The result must be non-empty and a subset of the
// declared valid ids for the question; otherwise ok is false.
func ParseMultiSelect(text string, valid map[string]bool) ([]string, bool) {
	text = strings.ReplaceAll(text, ";", ",")
	seen := make(map[string]bool)
	for _, part := range strings.Split(text, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if !valid[id] {
			return nil, false
		}
		seen[id] = true
	}
	if len(seen) == 0 {
		return nil, false
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, true
}
