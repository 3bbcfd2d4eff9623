package crawler

import (
	"fmt"
	"strconv"
	"time"
)

// rocEraOffset converts Gregorian years to Republic of China (民國) years
const rocEraOffset = 1911

// Payload is the form body posted to the statistics page
type Payload map[string]string

// ROCYear returns the local calendar year of t
func ROCYear(t time.Time) int {
	return t.Year() - rocEraOffset
}

// ROCDate formats t as {rocYear}{MM}{DD}, e.g. 2024-10-10 -> "1131010"
func ROCDate(t time.Time) string {
	return fmt.Sprintf("%d%02d%02d", ROCYear(t), int(t.Month()), t.Day())
}

// BuildPayload builds the form for one market on one day.
// Only calendarType, numbers and orderby are fixed.
func BuildPayload(date time.Time, marketCode string) Payload {
	year := ROCYear(date)
	month := int(date.Month())
	day := date.Day()

	return Payload{
		"dateStr":      fmt.Sprintf("%d.%d.%d", year, month, day),
		"calendarType": "tw",
		"year":         strconv.Itoa(year),
		"month":        strconv.Itoa(month),
		"day":          strconv.Itoa(day),
		"mid":          marketCode,
		"numbers":      "999",
		"orderby":      "w",
	}
}
