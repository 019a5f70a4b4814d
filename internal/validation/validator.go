package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"project-tracker/internal/config"
)

const maxIDLength = 64

// Validator provides common validation utilities
type Validator struct {
	timeShorthandRegex *regexp.Regexp
	config             *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

// NewValidatorWithConfig creates a new validator instance with configuration.
// A nil config selects the default limits.
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		timeShorthandRegex: regexp.MustCompile(`^(\d+)(m|h|d|w)$`),
		config:             cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length in characters is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidNameLength checks if a project or task name length is within configured limits
func (v *Validator) IsValidNameLength(name string) bool {
	return v.IsValidStringLength(name, v.nameMinLength(), v.nameMaxLength())
}

// IsValidName checks that a name is a single line of printable characters
func (v *Validator) IsValidName(name string) bool {
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return utf8.ValidString(name)
}

// IsValidDescriptionLength checks a description against the configured maximum
func (v *Validator) IsValidDescriptionLength(description string) bool {
	return v.IsValidStringLength(description, 0, v.descriptionMaxLength())
}

// IsValidDescription allows line breaks and tabs but no other control characters
func (v *Validator) IsValidDescription(description string) bool {
	for _, r := range description {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return false
		}
	}
	return utf8.ValidString(description)
}

// IsValidID checks that an identifier is non-empty, bounded and free of whitespace
func (v *Validator) IsValidID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	return !strings.ContainsFunc(id, unicode.IsSpace)
}

// IsValidTimeShorthand checks if a relative time shorthand such as 30m or 2d is valid
func (v *Validator) IsValidTimeShorthand(shorthand string) bool {
	matches := v.timeShorthandRegex.FindStringSubmatch(shorthand)
	if matches == nil {
		return false
	}

	value, err := strconv.Atoi(matches[1])
	return err == nil && value > 0
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func (v *Validator) nameMinLength() int {
	if v.config != nil {
		return v.config.Validation.NameMinLength
	}
	return 1
}

func (v *Validator) nameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.NameMaxLength
	}
	return 255
}

func (v *Validator) descriptionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.DescriptionMaxLength
	}
	return 2000
}
