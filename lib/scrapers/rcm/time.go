package rcm

import (
	"fleetblock-backend/lib/timezone"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var referenceMonths = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

func parseMonth(text string) (time.Month, error) {
	n, err := strconv.Atoi(text)
	if err == nil && isDigits(text) {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month out of range: %d", n)
		}
		return time.Month(n), nil
	}

	text = strings.ToLower(text)
	if len(text) < 3 {
		return 0, fmt.Errorf("unknown month %q", text)
	}
	for i, month := range referenceMonths {
		if text[:3] == month {
			return time.January + time.Month(i), nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", text)
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseClock(text, meridiem string) (int, int, int, error) {
	var values [3]int
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("invalid time %q", text)
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || !isDigits(part) {
			return 0, 0, 0, fmt.Errorf("invalid time %q", text)
		}
		values[i] = n
	}
	hour, minute, second := values[0], values[1], values[2]

	switch strings.ToLower(meridiem) {
	case "":
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 12 {
			hour += 12
		}
	default:
		return 0, 0, 0, fmt.Errorf("invalid time suffix %q", meridiem)
	}

	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, fmt.Errorf("time out of range %q", text)
	}
	return hour, minute, second, nil
}

// ParseDate parses the date-times the upstream emits, which are not
// consistent between endpoints: "14/01/2026 10:00:00", "19-Jan-2026 12:30",
// "2026/1/14", "14/1/26". Slash or dash separators, numeric or named months,
// 2 or 4 digit years and an optional time are accepted. A leading 4 digit
// component means the date is year first.
func ParseDate(text string) (time.Time, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("empty date")
	}

	datePart := fields[0]
	sep := "/"
	if !strings.Contains(datePart, "/") && strings.Contains(datePart, "-") {
		sep = "-"
	}
	parts := strings.Split(datePart, sep)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q", text)
	}

	dayText, monthText, yearText := parts[0], parts[1], parts[2]
	if len(parts[0]) == 4 && isDigits(parts[0]) {
		yearText, monthText, dayText = parts[0], parts[1], parts[2]
	}

	year, err := strconv.Atoi(yearText)
	if err != nil || !isDigits(yearText) {
		return time.Time{}, fmt.Errorf("invalid year in %q", text)
	}
	if year < 100 {
		year += 2000
	}
	month, err := parseMonth(monthText)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", text, err)
	}
	day, err := strconv.Atoi(dayText)
	if err != nil || !isDigits(dayText) {
		return time.Time{}, fmt.Errorf("invalid day in %q", text)
	}
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > daysInMonth {
		return time.Time{}, fmt.Errorf("day out of range in %q", text)
	}

	var hour, minute, second int
	if len(fields) > 1 {
		meridiem := ""
		if len(fields) > 2 {
			meridiem = fields[2]
		}
		hour, minute, second, err = parseClock(fields[1], meridiem)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", text, err)
		}
	}

	return time.Date(year, month, day, hour, minute, second, 0, timezone.Location), nil
}

// FormatDate renders a date the way the availability endpoint expects it (dd/MM/yyyy).
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// NormalizeDate accepts anything ParseDate does and returns it as dd/MM/yyyy.
func NormalizeDate(text string) (string, error) {
	t, err := ParseDate(text)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}
