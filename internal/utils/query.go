package utils

import (
	"strconv"
	"strings"
)

// ParseQueryList handles both repeated and comma-separated query params.
// Blank entries and duplicates are dropped, order is kept.
// Example:
//
//	?category=panel,inverter         → ["panel","inverter"]
//	?category=panel&category=cable   → ["panel","cable"]
func ParseQueryList(q map[string][]string, key string) []string {
	values := q[key]
	if len(values) == 0 {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

// ParseQueryFloat reads an optional float query param. ok is false when the
// param is absent; err is set when it is present but malformed.
func ParseQueryFloat(q map[string][]string, key string) (v float64, ok bool, err error) {
	values := q[key]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}

// ParseQueryInt reads an int query param, returning fallback when absent or
// malformed.
func ParseQueryInt(q map[string][]string, key string, fallback int) int {
	values := q[key]
	if len(values) == 0 {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil {
		return fallback
	}
	return v
}
