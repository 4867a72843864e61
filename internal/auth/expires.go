package auth

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const defaultExpiresIn = int64(7 * 24 * 60 * 60)

// maxExpiresIn is the largest number of seconds a time.Duration can hold.
const maxExpiresIn = math.MaxInt64 / int64(time.Second)

var unitSeconds = map[byte]int64{
	'd': 86400,
	'h': 3600,
	'm': 60,
	's': 1,
}

// ParseExpiresIn converts a duration string such as "7d", "2h", "15m" or
// "30s" into seconds. An empty string or an unknown unit yields seven days.
//
// The number is the leading integer of what precedes the unit, so "1.5h" is
// one hour and " 2h" is two. A known unit with no digits or a value below one
// yields 7 of that unit. A value too large for a time.Duration yields seven
// days.
func ParseExpiresIn(s string) int64 {
	if s == "" {
		return defaultExpiresIn
	}

	mult, ok := unitSeconds[s[len(s)-1]]
	if !ok {
		return defaultExpiresIn
	}

	n, err := leadingInt(s[:len(s)-1])
	switch {
	case errors.Is(err, strconv.ErrRange):
		return defaultExpiresIn
	case err != nil || n <= 0:
		n = 7
	}

	if n > maxExpiresIn/mult {
		return defaultExpiresIn
	}

	return n * mult
}

// ExpiresInDuration is ParseExpiresIn as a time.Duration.
func ExpiresInDuration(s string) time.Duration {
	return time.Duration(ParseExpiresIn(s)) * time.Second
}

// leadingInt parses an optionally signed run of decimal digits after leading
// whitespace and ignores the rest of s.
func leadingInt(s string) (int64, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	return strconv.ParseInt(s[:end], 10, 64)
}
