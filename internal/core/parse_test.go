package core

import (
	"reflect"
	"testing"
	"time"
)

func TestParseBloodPressure(t *testing.T) {
	tests := []struct {
		in       string
		sys, dia int
		ok       bool
	}{
		{"120/80", 120, 80, true},
		{"12/8", 120, 80, true},
		{"12x8", 120, 80, true},
		{"12 8", 120, 80, true},
		{"13X9", 130, 90, true},
		{"90/60", 90, 60, true},
		{"190/300", 0, 0, false},
		{"300/80", 0, 0, false},
		{"pressão normal", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		sys, dia, ok := DefaultLimits.ParseBloodPressure(tt.in)
		if ok != tt.ok || sys != tt.sys || dia != tt.dia {
			t.Errorf("ParseBloodPressure(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.in, sys, dia, ok, tt.sys, tt.dia, tt.ok)
		}
	}
}

func TestParseWeightKg(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"70", 70.0, true},
		{"70,5", 70.5, true},
		{"peso 82.3 kg", 82.3, true},
		{"300", 0, false},
		{"29", 0, false},
		{"não sei", 0, false},
	}
	for _, tt := range tests {
		got := DefaultLimits.ParseWeightKg(tt.in)
		if tt.ok != (got != nil) {
			t.Errorf("ParseWeightKg(%q) validity = %v, want %v", tt.in, got != nil, tt.ok)
			continue
		}
		if got != nil && *got != tt.want {
			t.Errorf("ParseWeightKg(%q) = %v, want %v", tt.in, *got, tt.want)
		}
	}
}

func TestParseHeightM(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,60", 1.60, true},
		{"1.75", 1.75, true},
		{"2.2", 2.2, true},
		{"1.0", 0, false},
		{"2.5", 0, false},
		{"alta", 0, false},
	}
	for _, tt := range tests {
		got := DefaultLimits.ParseHeightM(tt.in)
		if tt.ok != (got != nil) {
			t.Errorf("ParseHeightM(%q) validity = %v, want %v", tt.in, got != nil, tt.ok)
			continue
		}
		if got != nil && *got != tt.want {
			t.Errorf("ParseHeightM(%q) = %v, want %v", tt.in, *got, tt.want)
		}
	}
}

func TestParseWeeksOrDate(t *testing.T) {
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"22", 22, true},
		{"0", 0, true},
		{"45", 45, true},
		{"46", 0, false},
		{"-1", 0, false},
		{today.AddDate(0, 0, -140).Format("02/01/2006"), 20, true},
		{today.AddDate(0, 0, -141).Format("02/01/2006"), 20, true}, // floor
		{"25/12/2024", 11, true},
		{"25-12-2024", 11, true},
		{"31/02/2024", 0, false}, // impossible date
		{"12/2023", 0, false},    // ambiguous partial
		{"amanhã", 0, false},
		{today.AddDate(0, 0, 30).Format("02/01/2006"), 0, false}, // future
		{today.AddDate(-2, 0, 0).Format("02/01/2006"), 0, false}, // too far back
	}
	for _, tt := range tests {
		got := DefaultLimits.ParseWeeksOrDate(tt.in, today)
		if tt.ok != (got != nil) {
			t.Errorf("ParseWeeksOrDate(%q) validity = %v, want %v", tt.in, got != nil, tt.ok)
			continue
		}
		if got != nil && *got != tt.want {
			t.Errorf("ParseWeeksOrDate(%q) = %d, want %d", tt.in, *got, tt.want)
		}
	}
}

func TestParseMultiSelect(t *testing.T) {
	valid := map[string]bool{"1": true, "2": true, "3": true, "4": true}
	tests := []struct {
		in   string
		want []string
		ok   bool
	}{
		{"1,3", []string{"1", "3"}, true},
		{"1;3", []string{"1", "3"}, true},
		{" 3 , 1 ", []string{"1", "3"}, true},
		{"1,1,3", []string{"1", "3"}, true},
		{"4", []string{"4"}, true},
		{"1,9", nil, false},
		{"", nil, false},
		{",,", nil, false},
		{"sim", nil, false},
	}
	for _, tt := range tests {
		got, ok := ParseMultiSelect(tt.in, valid)
		if ok != tt.ok {
			t.Errorf("ParseMultiSelect(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseMultiSelect(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAgeAndVisitCount(t *testing.T) {
	if got := DefaultLimits.ParseAge("28"); got == nil || *got != 28 {
		t.Errorf("ParseAge(28) = %v, want 28", got)
	}
	for _, in := range []string{"9", "61", "vinte", ""} {
		if got := DefaultLimits.ParseAge(in); got != nil {
			t.Errorf("ParseAge(%q) = %d, want rejection", in, *got)
		}
	}
	if got := DefaultLimits.ParseVisitCount("0"); got == nil || *got != 0 {
		t.Errorf("ParseVisitCount(0) = %v, want 0", got)
	}
	if got := DefaultLimits.ParseVisitCount("51"); got != nil {
		t.Errorf("ParseVisitCount(51) = %d, want rejection", *got)
	}
}
