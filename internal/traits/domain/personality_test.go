package domain

import "testing"

func TestParsePersonalityFallsBackToUnknown(t *testing.T) {
	tests := []struct {
		value string
		want  Personality
	}{
		{"calm", PersonalityCalm},
		{"stoic", PersonalityStoic},
		{"grumpy", PersonalityUnknown},
		{"", PersonalityUnknown},
		{"unknown", PersonalityUnknown},
	}

	for _, tt := range tests {
		if got := ParsePersonality(tt.value); got != tt.want {
			t.Fatalf("ParsePersonality(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestKnownPersonalitiesOrderIsStable(t *testing.T) {
	states := KnownPersonalities()
	if len(states) != 6 {
		t.Fatalf("known states len = %d, want 6", len(states))
	}
	for i, state := range states {
		if got := PersonalityIndex(state); got != i {
			t.Fatalf("PersonalityIndex(%q) = %d, want %d", state, got, i)
		}
	}
	if got := PersonalityIndex(PersonalityUnknown); got != -1 {
		t.Fatalf("PersonalityIndex(unknown) = %d, want -1", got)
	}
}

func TestModifierFixedPrecision(t *testing.T) {
	tests := []struct {
		value float64
		want  Modifier
	}{
		{1.5, 150},
		{-0.755, -76},
		{0, 0},
		{3.004, 300},
	}

	for _, tt := range tests {
		if got := ModifierFromFloat(tt.value); got != tt.want {
			t.Fatalf("ModifierFromFloat(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}

	if got := Modifier(150).String(); got != "+1.50" {
		t.Fatalf("Modifier(150).String() = %q, want +1.50", got)
	}
	if got := Modifier(-76).String(); got != "-0.76" {
		t.Fatalf("Modifier(-76).String() = %q, want -0.76", got)
	}
}
