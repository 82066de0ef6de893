package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by Parse.
var (
	ErrSyntax       = errors.New("domain: syntax error")
	ErrNotContained = errors.New("domain: value is outside its domain")
	ErrDuplicate    = errors.New("domain: duplicate parameter name")
)

// Parse reads a comma-separated list of entries, each one of
//
//	name=value        free
//	name==value       fixed
//	name=value<max    bounded above
//	name=value>min    bounded below
//	min<name=value<max
//
// Every nominal value must lie inside its own domain.
func Parse(s string) (Values, error) {
	var vs Values
	seen := make(map[string]bool)

	for _, raw := range strings.Split(s, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		v, err := ParseEntry(entry)
		if err != nil {
			return nil, err
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, v.Name)
		}
		seen[v.Name] = true
		vs = append(vs, v)
	}

	return vs, nil
}

// ParseEntry reads a single entry of the [Parse] syntax.
func ParseEntry(entry string) (ValueAndDomain, error) {
	entry = strings.ReplaceAll(entry, " ", "")

	if name, value, ok := strings.Cut(entry, "=="); ok {
		x, err := parseNumber(entry, value)
		if err != nil {
			return ValueAndDomain{}, err
		}
		if err := checkName(entry, name); err != nil {
			return ValueAndDomain{}, err
		}
		return NewFixed(name, x), nil
	}

	lhs, rhs, ok := strings.Cut(entry, "=")
	if !ok || strings.Contains(rhs, "=") {
		return ValueAndDomain{}, fmt.Errorf("%w: %q: expected exactly one '='", ErrSyntax, entry)
	}

	var (
		name   = lhs
		min    float64
		hasMin bool
	)
	if minStr, n, found := strings.Cut(lhs, "<"); found {
		x, err := parseNumber(entry, minStr)
		if err != nil {
			return ValueAndDomain{}, err
		}
		name, min, hasMin = n, x, true
	}
	if err := checkName(entry, name); err != nil {
		return ValueAndDomain{}, err
	}

	var v ValueAndDomain
	switch {
	case strings.Contains(rhs, "<"):
		valueStr, maxStr, _ := strings.Cut(rhs, "<")
		value, err := parseNumber(entry, valueStr)
		if err != nil {
			return ValueAndDomain{}, err
		}
		max, err := parseNumber(entry, maxStr)
		if err != nil {
			return ValueAndDomain{}, err
		}
		if hasMin {
			v = NewClosed(name, value, min, max)
		} else {
			v = NewWithMax(name, value, max)
		}
	case strings.Contains(rhs, ">"):
		if hasMin {
			return ValueAndDomain{}, fmt.Errorf("%w: %q: lower bound given twice", ErrSyntax, entry)
		}
		valueStr, minStr, _ := strings.Cut(rhs, ">")
		value, err := parseNumber(entry, valueStr)
		if err != nil {
			return ValueAndDomain{}, err
		}
		lo, err := parseNumber(entry, minStr)
		if err != nil {
			return ValueAndDomain{}, err
		}
		v = NewWithMin(name, value, lo)
	default:
		value, err := parseNumber(entry, rhs)
		if err != nil {
			return ValueAndDomain{}, err
		}
		if hasMin {
			v = NewWithMin(name, value, min)
		} else {
			v = NewFree(name, value)
		}
	}

	if !v.Contains(v.Value) {
		return ValueAndDomain{}, fmt.Errorf("%w: %q", ErrNotContained, entry)
	}
	return v, nil
}

func parseNumber(entry, s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: bad number %q", ErrSyntax, entry, s)
	}
	return x, nil
}

func checkName(entry, name string) error {
	if name == "" || strings.ContainsAny(name, "<>=") {
		return fmt.Errorf("%w: %q: bad parameter name %q", ErrSyntax, entry, name)
	}
	return nil
}
