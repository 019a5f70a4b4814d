package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"project-tracker/internal/errors"
	"project-tracker/internal/validation"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
)

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	clock     Clock
	validator *validation.Validator
}

// NewTimeService creates a new TimeService instance. A nil clock uses time.Now.
func NewTimeService(clock Clock) TimeService {
	if clock == nil {
		clock = time.Now
	}
	return &timeServiceImpl{
		clock:     clock,
		validator: validation.NewValidator(),
	}
}

// Now returns the current time from the service clock
func (t *timeServiceImpl) Now() time.Time {
	return t.clock()
}

// ParseTimestamp converts user input into a point in time. Dates without a
// zone are read in the clock's location.
func (t *timeServiceImpl) ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.NewValidationError("timestamp cannot be empty", nil)
	}

	now := t.clock()
	if strings.EqualFold(value, "now") {
		return now, nil
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	for _, layout := range []string{dateTimeLayout, dateLayout} {
		if parsed, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return parsed, nil
		}
	}

	if t.validator.IsValidTimeShorthand(value) {
		d, ok := shorthandDuration(value)
		if !ok {
			return time.Time{}, errors.NewInvalidInputError("timestamp", value,
				"relative time is too far in the past")
		}
		return now.Add(-d), nil
	}

	return time.Time{}, errors.NewInvalidInputError("timestamp", value,
		"invalid timestamp format (use now, 2006-01-02, \"2006-01-02 15:04\", RFC 3339 or 30m/2h/1d/1w)")
}

// ParseOptionalTimestamp parses value, returning nil for blank input
func (t *timeServiceImpl) ParseOptionalTimestamp(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := t.ParseTimestamp(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// shorthandDuration expects input already accepted by IsValidTimeShorthand.
// It reports false when the amount does not fit in a time.Duration.
func shorthandDuration(value string) (time.Duration, bool) {
	amount, err := strconv.ParseInt(value[:len(value)-1], 10, 64)
	if err != nil {
		return 0, false
	}

	var unit time.Duration
	switch value[len(value)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		unit = 7 * 24 * time.Hour
	}
	if amount > math.MaxInt64/int64(unit) {
		return 0, false
	}
	return time.Duration(amount) * unit, true
}
