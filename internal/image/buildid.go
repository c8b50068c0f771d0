package image

import (
	"regexp"
	"strings"
	"time"
)

// Layout of dates accepted on the command line.
const dateLayout = "2006-01-02"

var buildIDPattern = regexp.MustCompile(`^[a-z][a-z0-9-]+$`)

// A validated build identifier.
//
// Build identifiers start with a lowercase letter and contain at least two
// characters drawn from lowercase letters, digits and hyphens. The zero value
// is not valid.
type BuildID string

// Validates a raw build identifier.
func ParseBuildID(raw string) (BuildID, error) {
	if !buildIDPattern.MatchString(raw) {
		return "", &ValidationError{
			Field:  "build id",
			Value:  raw,
			Reason: "must match " + buildIDPattern.String(),
		}
	}
	return BuildID(raw), nil
}

func (id BuildID) String() string {
	return string(id)
}

// Implements [encoding.TextUnmarshaler] so flag parsers validate the value.
func (id *BuildID) UnmarshalText(text []byte) error {
	v, err := ParseBuildID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// A calendar date used as the date part of a version.
type Date struct {
	time.Time
}

// Parses a date in YYYY-MM-DD form.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return Date{}, &ValidationError{
			Field:  "date",
			Value:  raw,
			Reason: "expected format YYYY-MM-DD",
		}
	}
	return Date{t}, nil
}

// Returns the date with the time of day discarded.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Returns the date as eight digits (YYYYMMDD).
func (d Date) Compact() string {
	return d.Format("20060102")
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Implements [encoding.TextUnmarshaler] so flag parsers validate the value.
func (d *Date) UnmarshalText(text []byte) error {
	v, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
