package helper

import (
	"fmt"
	"strconv"
	"strings"
)

// SecondsToMinutes formats a lap time as mm:ss.mmm.
func SecondsToMinutes(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	minutes := int(seconds / 60)
	seconds = seconds - float64(minutes*60)
	milliseconds := int((seconds-float64(int(seconds)))*1000 + 0.5)
	if milliseconds == 1000 {
		milliseconds = 999
	}
	return fmt.Sprintf("%02d:%02d.%03d", minutes, int(seconds), milliseconds)
}

// FormatPoints drops the decimals unless half points were awarded.
func FormatPoints(points float64) string {
	return strconv.FormatFloat(points, 'f', -1, 64)
}

// DriverCode builds a three letter code for drivers without an official
// acronym: first letter of the name plus two of the surname.
func DriverCode(acronym, name string) string {
	if acronym != "" {
		return strings.ToUpper(acronym)
	}
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	code := words[0][:1]
	if len(words) > 1 {
		last := words[len(words)-1]
		if len(last) > 2 {
			code += last[:2]
		} else {
			code += last
		}
	} else if len(words[0]) > 2 {
		code += words[0][1:3]
	} else {
		code = words[0]
	}
	return strings.ToUpper(code)
}

// PageCount returns how many pages of size perPage hold n items.
func PageCount(n, perPage int) int {
	if n <= 0 || perPage <= 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}
