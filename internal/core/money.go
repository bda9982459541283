// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing raw form amounts into whole CFA
// francs and formatting them the way the French-speaking UI displays them.
package core

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var frenchPrinter = message.NewPrinter(language.French)

// ParseAmount converts raw user input into a positive whole-franc amount.
//
// Digit grouping with spaces (regular, no-break or narrow no-break) is
// accepted since that is how amounts are displayed. A trailing "FCFA" suffix
// is tolerated. Signs, decimals and any other character are rejected with
// ErrInvalidAmount, as is zero.
//
// Examples:
//
//	ParseAmount("10000")       -> 10000, nil
//	ParseAmount("10 000 FCFA") -> 10000, nil
//	ParseAmount("-5")          -> 0, ErrInvalidAmount
//	ParseAmount("abc")         -> 0, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "FCFA"), "F"))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	var digits strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '\u00a0' || r == '\u202f':
			continue
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		default:
			return Money{}, ErrInvalidAmount
		}
	}
	if digits.Len() == 0 {
		return Money{}, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Francs: v}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// String renders the amount with French digit grouping, e.g. "50 000 FCFA".
func (m Money) String() string {
	return frenchPrinter.Sprintf("%d FCFA", m.Francs)
}

// MarshalJSON encodes Money as a bare integer.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Francs)
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &m.Francs)
}
