// Package dateutil resolves the date shown on the generation line of a
// rendered CV. Values are either literal text or "auto" with an optional
// token format, e.g. "auto:DD/MM/YYYY".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an unusable "auto" value or token format.
var ErrInvalidDateFormat = errors.New("invalid date format")

// DefaultFormat applies to a bare "auto".
const DefaultFormat = "YYYY-MM-DD"

const (
	autoKeyword  = "auto"
	maxFormatLen = 50
)

// presets are named formats accepted after "auto:", matched case-insensitively.
var presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// tokens lists longer tokens first; the replacer tries them in argument order.
var tokens = strings.NewReplacer(
	"YYYY", "2006",
	"MMMM", "January",
	"MMM", "Jan",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"M", "1",
	"D", "2",
)

// Layout converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D) into a
// time layout. Text between brackets is copied verbatim, so "[on] D MMMM"
// keeps the word "on".
func Layout(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: empty format", ErrInvalidDateFormat)
	}
	if len(format) > maxFormatLen {
		return "", fmt.Errorf("%w: format longer than %d bytes", ErrInvalidDateFormat, maxFormatLen)
	}

	var b strings.Builder
	rest := format
	for rest != "" {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			b.WriteString(tokens.Replace(rest))
			break
		}
		b.WriteString(tokens.Replace(rest[:open]))
		closing := strings.IndexByte(rest[open+1:], ']')
		if closing < 0 {
			return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
		}
		b.WriteString(rest[open+1 : open+1+closing])
		rest = rest[open+closing+2:]
	}
	return b.String(), nil
}

// ResolveDate formats t when value is "auto" or "auto:FORMAT", where FORMAT
// is a token format or a preset name (iso, european, us, long). Any other
// value, including the empty string, is returned unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	keyword, format, hasFormat := strings.Cut(value, ":")
	if !strings.EqualFold(keyword, autoKeyword) {
		return value, nil
	}
	if !hasFormat {
		format = DefaultFormat
	} else if p, ok := presets[strings.ToLower(format)]; ok {
		format = p
	}

	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
