package rota

import (
	"strings"
	"unicode"
)

// nameRule renames a roster code for display. Rules are evaluated in order
// and the first match wins.
type nameRule struct {
	kind   string
	match  func(code string) bool
	format func(code string) string
}

var nameRules = []nameRule{
	{
		kind:   "on-call",
		match:  isDigits,
		format: func(code string) string { return "OC" + code },
	},
	{
		kind:   "overtime",
		match:  isLowerLetters,
		format: func(code string) string { return strings.ToUpper(code) + " (OT)" },
	},
}

// ShiftName returns the event summary for a roster code: digits are on-call
// ("3" -> "OC3"), lowercase letters are overtime ("n" -> "N (OT)"), anything
// else is used as-is.
func ShiftName(code string) string {
	name, _ := resolveName(code)
	return name
}

// resolveName also reports which rule matched ("" when none did).
func resolveName(code string) (string, string) {
	for _, r := range nameRules {
		if r.match(code) {
			return r.format(code), r.kind
		}
	}
	return code, ""
}

// isDigits accepts decimal digits (Unicode Nd); other numerals such as '½' are
// used as-is.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isLowerLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}
