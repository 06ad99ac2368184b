// Package models defines the profile record edited by the client and the
// structural checks applied to it before submission.
package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Field names one editable text field of a Profile.
type Field string

const (
	FieldName        Field = "name"
	FieldTitle       Field = "title"
	FieldCompany     Field = "company"
	FieldDescription Field = "description"
	FieldPhone       Field = "phone"
	FieldCountryCode Field = "countryCode"
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldName, FieldTitle, FieldCompany, FieldDescription, FieldPhone, FieldCountryCode}

var ErrUnknownField = errors.New("unknown profile field")

// ParseField resolves a field name case-insensitively; "country_code" and
// "country" are accepted for countryCode.
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "country_code", "country", "countrycode":
		return FieldCountryCode, nil
	case "bio", "about":
		return FieldDescription, nil
	}
	for _, f := range Fields {
		if strings.ToLower(string(f)) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Profile is the single persisted profile document.
type Profile struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"imageUrls"`
	Phone       string   `json:"phone"`
	CountryCode string   `json:"countryCode"`
}

// Clone returns a deep copy; the image list is never shared.
func (p Profile) Clone() Profile {
	p.ImageURLs = slices.Clone(p.ImageURLs)
	return p
}

// Get returns the value of a text field.
func (p *Profile) Get(f Field) (string, error) {
	switch f {
	case FieldName:
		return p.Name, nil
	case FieldTitle:
		return p.Title, nil
	case FieldCompany:
		return p.Company, nil
	case FieldDescription:
		return p.Description, nil
	case FieldPhone:
		return p.Phone, nil
	case FieldCountryCode:
		return p.CountryCode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
}

// Set replaces the value of a text field. No validation happens here.
func (p *Profile) Set(f Field, value string) error {
	switch f {
	case FieldName:
		p.Name = value
	case FieldTitle:
		p.Title = value
	case FieldCompany:
		p.Company = value
	case FieldDescription:
		p.Description = value
	case FieldPhone:
		p.Phone = value
	case FieldCountryCode:
		p.CountryCode = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// Avatar is the first image URL, or "" when the profile has none.
func (p *Profile) Avatar() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
