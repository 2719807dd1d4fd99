// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package date

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Precision is the resolution at which datetime values are stored.
type Precision string

const (
	Seconds      Precision = "seconds"
	Milliseconds Precision = "milliseconds"
	Microseconds Precision = "microseconds"
	Nanoseconds  Precision = "nanoseconds"
)

var precisionUnits = map[Precision]time.Duration{
	Seconds:      time.Second,
	Milliseconds: time.Millisecond,
	Microseconds: time.Microsecond,
	Nanoseconds:  time.Nanosecond,
}

// ParsePrecision validates a precision name.
func ParsePrecision(s string) (Precision, error) {
	p := Precision(s)
	if _, ok := precisionUnits[p]; !ok {
		return "", fmt.Errorf("unsupported precision '%s', expected one of seconds, milliseconds, microseconds, nanoseconds", s)
	}
	return p, nil
}

// Unit returns the duration of one tick at this precision.
func (p Precision) Unit() time.Duration {
	return precisionUnits[p]
}

// FinerThan returns true if p resolves smaller intervals than other.
func (p Precision) FinerThan(other Precision) bool {
	return p.Unit() < other.Unit()
}

// OutputFormat is the fixed set of renderings available for stored datetime values.
type OutputFormat string

const (
	OutputRFC3339     OutputFormat = "rfc3339"
	OutputRFC2822     OutputFormat = "rfc2822"
	OutputUnixSeconds OutputFormat = "unix_timestamp_secs"
	OutputUnixMillis  OutputFormat = "unix_timestamp_millis"
	OutputUnixMicros  OutputFormat = "unix_timestamp_micros"
	OutputUnixNanos   OutputFormat = "unix_timestamp_nanos"
)

// outputGranularity is the finest precision each output format can represent.
var outputGranularity = map[OutputFormat]Precision{
	OutputRFC3339:     Nanoseconds,
	OutputRFC2822:     Seconds,
	OutputUnixSeconds: Seconds,
	OutputUnixMillis:  Milliseconds,
	OutputUnixMicros:  Microseconds,
	OutputUnixNanos:   Nanoseconds,
}

// ParseOutputFormat validates an output format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(s)
	if _, ok := outputGranularity[f]; !ok {
		return "", fmt.Errorf("unsupported output format '%s'", s)
	}
	return f, nil
}

// Granularity returns the finest precision the output format can carry.
func (f OutputFormat) Granularity() Precision {
	return outputGranularity[f]
}

// IsUnix returns true for the integer renderings.
func (f OutputFormat) IsUnix() bool {
	return strings.HasPrefix(string(f), "unix_timestamp_")
}

// Format renders t. Unix formats produce an int64, the others a string.
func (f OutputFormat) Format(t time.Time) any {
	t = t.UTC()
	switch f {
	case OutputUnixSeconds:
		return t.Unix()
	case OutputUnixMillis:
		return t.UnixMilli()
	case OutputUnixMicros:
		return t.UnixMicro()
	case OutputUnixNanos:
		return t.UnixNano()
	case OutputRFC2822:
		return t.Format(time.RFC1123Z)
	default:
		return t.Format(time.RFC3339Nano)
	}
}

// InputFormat is either one of the named formats or a strftime pattern.
type InputFormat string

const (
	InputUnixTimestamp InputFormat = "unix_timestamp"
	InputRFC3339       InputFormat = "rfc3339"
	InputRFC2822       InputFormat = "rfc2822"
	InputISO8601       InputFormat = "iso8601"
)

var iso8601Layouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
}

var rfc2822Layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

// ParseInputFormat validates a named format or a strftime pattern. A pattern must contain at least one '%'
// directive and must be convertible to a time layout.
func ParseInputFormat(s string) (InputFormat, error) {
	switch f := InputFormat(s); f {
	case InputUnixTimestamp, InputRFC3339, InputRFC2822, InputISO8601:
		return f, nil
	}

	if !strings.Contains(s, "%") {
		return "", fmt.Errorf("unknown input format '%s', expected unix_timestamp, rfc3339, rfc2822, iso8601 or a strftime pattern", s)
	}
	if _, err := strftime.Layout(s); err != nil {
		return "", fmt.Errorf("invalid strftime pattern '%s': %w", s, err)
	}

	return InputFormat(s), nil
}

// IsPattern returns true if the format is a strftime pattern.
func (f InputFormat) IsPattern() bool {
	switch f {
	case InputUnixTimestamp, InputRFC3339, InputRFC2822, InputISO8601:
		return false
	}
	return true
}

// ParseString parses a string value using this format.
func (f InputFormat) ParseString(s string) (time.Time, error) {
	switch f {
	case InputUnixTimestamp:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return FromUnixInt(i), nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("'%s' is not a unix timestamp", s)
		}
		return FromUnix(n), nil
	case InputRFC3339:
		return time.Parse(time.RFC3339Nano, s)
	case InputRFC2822:
		return parseAny(rfc2822Layouts, s)
	case InputISO8601:
		return parseAny(iso8601Layouts, s)
	default:
		return strftime.Parse(string(f), s)
	}
}

func parseAny(layouts []string, s string) (time.Time, error) {
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Bounds used to infer the unit of a unix timestamp from its magnitude. A value below 1e11 is read as seconds
// (up to year 5138), below 1e14 as milliseconds, below 1e17 as microseconds, anything larger as nanoseconds.
const (
	maxUnixSeconds = 1e11
	maxUnixMillis  = 1e14
	maxUnixMicros  = 1e17
)

// FromUnix converts a unix timestamp of inferred unit to a UTC time.
func FromUnix(v float64) time.Time {
	abs := math.Abs(v)
	switch {
	case abs < maxUnixSeconds:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
	case abs < maxUnixMillis:
		return time.UnixMicro(int64(math.Round(v * 1e3))).UTC()
	case abs < maxUnixMicros:
		return time.UnixMicro(int64(math.Round(v))).UTC()
	default:
		return time.Unix(0, int64(v)).UTC()
	}
}

// FromUnixInt is FromUnix for integer inputs, exact at nanosecond magnitude.
func FromUnixInt(v int64) time.Time {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < maxUnixSeconds:
		return time.Unix(v, 0).UTC()
	case abs < maxUnixMillis:
		return time.UnixMilli(v).UTC()
	case abs < maxUnixMicros:
		return time.UnixMicro(v).UTC()
	default:
		return time.Unix(0, v).UTC()
	}
}

// Truncate drops everything finer than the precision.
func Truncate(t time.Time, p Precision) time.Time {
	return t.UTC().Truncate(p.Unit())
}
