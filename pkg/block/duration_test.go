package block

import (
	"errors"
	"testing"
	"time"
)

func TestParseDuration_Spans(t *testing.T) {
	tests := []struct {
		token string
		want  time.Duration
	}{
		{"90m", 90 * time.Minute},
		{"2h", 2 * time.Hour},
		{"1d", 24 * time.Hour},
		{"45s", 45 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"45", 45 * time.Minute}, // bare number means minutes
		{"1.5h", 90 * time.Minute},
		{"  2H ", 2 * time.Hour}, // case-insensitive, trimmed
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.token)
		if err != nil {
			t.Fatalf("ParseDuration(%q) failed: %v", tt.token, err)
		}
		if got.Kind != DurationSpan {
			t.Errorf("ParseDuration(%q): expected span, got kind %d", tt.token, got.Kind)
		}
		if got.Span != tt.want {
			t.Errorf("ParseDuration(%q): expected %v, got %v", tt.token, tt.want, got.Span)
		}
	}
}

func TestParseDuration_Instant(t *testing.T) {
	for _, token := range []string{"0", "now", "NOW", " 0 "} {
		got, err := ParseDuration(token)
		if err != nil {
			t.Fatalf("ParseDuration(%q) failed: %v", token, err)
		}
		if got.Kind != DurationInstant {
			t.Errorf("ParseDuration(%q): expected instant, got kind %d", token, got.Kind)
		}
		if got.Span != 0 {
			t.Errorf("ParseDuration(%q): expected zero span, got %v", token, got.Span)
		}
	}
}

func TestParseDuration_Wipe(t *testing.T) {
	for _, token := range []string{"wipe", "WIPE", " Wipe "} {
		got, err := ParseDuration(token)
		if err != nil {
			t.Fatalf("ParseDuration(%q) failed: %v", token, err)
		}
		if got.Kind != DurationWipe {
			t.Errorf("ParseDuration(%q): expected wipe sentinel, got kind %d", token, got.Kind)
		}
	}
}

func TestParseDuration_Errors(t *testing.T) {
	for _, token := range []string{"", "soon", "h", "2w", "-5m", "abc123"} {
		_, err := ParseDuration(token)
		if err == nil {
			t.Errorf("ParseDuration(%q): expected error, got none", token)
		}
		if !errors.Is(err, ErrBadDuration) {
			t.Errorf("ParseDuration(%q): expected ErrBadDuration, got %v", token, err)
		}
	}
}
