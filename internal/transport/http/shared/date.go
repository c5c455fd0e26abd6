package shared

import "time"

// ParseDate accepts RFC3339 or YYYY-MM-DD. An empty value yields the zero
// time and no error.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.DateOnly, value)
}
