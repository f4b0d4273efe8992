package render

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-messenger/pkg/config"
)

var (
	decimalHours = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	clockHours   = regexp.MustCompile(`^(\d+):([0-5]?\d)$`)
	unitHours    = regexp.MustCompile(`^(?:(\d+(?:[.,]\d+)?)\s*h(?:ours?|rs?)?)?\s*(?:(\d+)\s*(?:m(?:in(?:utes?)?)?)?)?$`)
)

// ParseHours reads a duration written as "1.5", "1,5", "1:30", "1h30",
// "1h 30m", "90m" or "2h". The boolean is false when text is not a
// duration.
func ParseHours(text string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}
	if decimalHours.MatchString(s) {
		return parseDecimal(s)
	}
	if match := clockHours.FindStringSubmatch(s); match != nil {
		h, _ := strconv.Atoi(match[1])
		m, _ := strconv.Atoi(match[2])
		return float64(h) + float64(m)/60, true
	}
	match := unitHours.FindStringSubmatch(s)
	if match == nil || (match[1] == "" && match[2] == "") {
		return 0, false
	}
	// A bare number without unit was already handled as decimal hours.
	if match[1] == "" && !strings.Contains(s, "m") {
		return 0, false
	}
	var hours float64
	if match[1] != "" {
		h, ok := parseDecimal(match[1])
		if !ok {
			return 0, false
		}
		hours = h
	}
	if match[2] != "" {
		m, err := strconv.Atoi(match[2])
		if err != nil {
			return 0, false
		}
		hours += float64(m) / 60
	}
	return hours, true
}

// FormatHours renders hours as "1.50" (decimal) or "1:30" (minutes).
func FormatHours(hours float64, format string) string {
	if format == config.HoursFormatMinutes {
		total := int(math.Round(hours * 60))
		return fmt.Sprintf("%d:%02d", total/60, total%60)
	}
	return fmt.Sprintf("%.2f", hours)
}

func parseDecimal(s string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
