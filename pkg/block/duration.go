package block

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DurationKind identifies the shape of a parsed duration token.
type DurationKind int

const (
	// DurationInstant is a zero-length span, produced by "0" or "now".
	// The parser accepts it so callers can express an already-expired
	// window; the mutator rejects it for timed scopes.
	DurationInstant DurationKind = iota

	// DurationSpan is a fixed wall-clock span.
	DurationSpan

	// DurationWipe means "until the next session reset", independent of
	// the wall clock.
	DurationWipe
)

// Duration is the typed outcome of parsing a duration token.
type Duration struct {
	Kind DurationKind

	// Span is the parsed span. Zero unless Kind is DurationSpan.
	Span time.Duration
}

// ParseDuration parses a free-form duration token. Tokens are
// case-insensitive and surrounding whitespace is trimmed.
//
// Accepted forms:
//   - "0" or "now"            -> DurationInstant
//   - "wipe"                  -> DurationWipe
//   - "<n>ms|s|m|h|d"         -> DurationSpan of that unit ("90m", "2h", "1d")
//   - bare number ("45")      -> DurationSpan in minutes
//
// Anything else is a parse error wrapping ErrBadDuration.
func ParseDuration(token string) (Duration, error) {
	tok := strings.ToLower(strings.TrimSpace(token))
	if tok == "" {
		return Duration{}, fmt.Errorf("%w: empty token", ErrBadDuration)
	}

	switch tok {
	case "0", "now":
		return Duration{Kind: DurationInstant}, nil
	case "wipe":
		return Duration{Kind: DurationWipe}, nil
	}

	value := tok
	unit := time.Minute

	switch {
	case strings.HasSuffix(tok, "ms"):
		value, unit = tok[:len(tok)-2], time.Millisecond
	case strings.HasSuffix(tok, "s"):
		value, unit = tok[:len(tok)-1], time.Second
	case strings.HasSuffix(tok, "m"):
		value, unit = tok[:len(tok)-1], time.Minute
	case strings.HasSuffix(tok, "h"):
		value, unit = tok[:len(tok)-1], time.Hour
	case strings.HasSuffix(tok, "d"):
		value, unit = tok[:len(tok)-1], 24*time.Hour
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Duration{}, fmt.Errorf("%w: %q", ErrBadDuration, token)
	}
	if n < 0 {
		return Duration{}, fmt.Errorf("%w: negative span %q", ErrBadDuration, token)
	}
	if n == 0 {
		return Duration{Kind: DurationInstant}, nil
	}

	return Duration{
		Kind: DurationSpan,
		Span: time.Duration(n * float64(unit)),
	}, nil
}
