package models

import (
	"errors"
	"regexp"
	"strings"
)

var ErrValidation = errors.New("validation error")

var (
	// Ten digits, optionally written as (555) 123-4567, 555-123-4567,
	// 555.123.4567 or 555 123 4567.
	phonePattern       = regexp.MustCompile(`^(\(\d{3}\)|\d{3})[-.\s]?\d{3}[-.\s]?\d{4}$`)
	countryCodePattern = regexp.MustCompile(`^\+?\d{1,4}$`)
)

// ValidationError lists every field that failed its structural check.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

func ValidCountryCode(s string) bool {
	return countryCodePattern.MatchString(s)
}

// Validate checks phone and country code. It returns a *ValidationError
// naming all failures, or nil.
func (p *Profile) Validate() error {
	var problems []string
	if !ValidPhone(p.Phone) {
		problems = append(problems, "phone must be a 10-digit number such as (555) 123-4567")
	}
	if !ValidCountryCode(p.CountryCode) {
		problems = append(problems, "country code must be 1-4 digits, optionally prefixed with +")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
