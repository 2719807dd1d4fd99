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

package schema

import (
	"fmt"
	"time"

	"github.com/tigrisdata/docmapper/errors"
	"github.com/tigrisdata/docmapper/lib/container"
	"github.com/tigrisdata/docmapper/lib/date"
)

const (
	DefaultOutputFormat = date.OutputRFC3339
	DefaultPrecision    = date.Seconds
)

// DatetimeOptions describe how a datetime field is parsed from documents and rendered back.
type DatetimeOptions struct {
	// InputFormats are tried in declaration order.
	InputFormats []date.InputFormat
	OutputFormat date.OutputFormat
	Precision    date.Precision
}

// NewDatetimeOptions validates the datetime sub-options of a field declaration. Empty output format and precision
// fall back to the defaults.
func NewDatetimeOptions(inputFormats []string, outputFormat string, precision string) (*DatetimeOptions, error) {
	if len(inputFormats) == 0 {
		return nil, errors.New(errors.MissingInputFormats, "datetime field requires at least one input format")
	}

	opts := &DatetimeOptions{
		OutputFormat: DefaultOutputFormat,
		Precision:    DefaultPrecision,
	}

	seen := container.NewHashSet()
	for _, in := range inputFormats {
		f, err := date.ParseInputFormat(in)
		if err != nil {
			return nil, errors.New(errors.InvalidInputFormat, "%s", err.Error())
		}
		if seen.Contains(in) {
			return nil, errors.New(errors.InvalidInputFormat, "input format '%s' is listed more than once", in)
		}
		seen.Insert(in)
		opts.InputFormats = append(opts.InputFormats, f)
	}

	var err error
	if len(outputFormat) > 0 {
		if opts.OutputFormat, err = date.ParseOutputFormat(outputFormat); err != nil {
			return nil, errors.New(errors.InvalidOutputFormat, "%s", err.Error())
		}
	}
	if len(precision) > 0 {
		if opts.Precision, err = date.ParsePrecision(precision); err != nil {
			return nil, errors.New(errors.InvalidPrecision, "%s", err.Error())
		}
	}

	if opts.Precision.FinerThan(opts.OutputFormat.Granularity()) {
		return nil, errors.New(errors.PrecisionMismatch, "precision '%s' is finer than what output format '%s' can represent",
			opts.Precision, opts.OutputFormat)
	}

	return opts, nil
}

// AcceptsUnix returns true if numeric JSON values are accepted.
func (d *DatetimeOptions) AcceptsUnix() bool {
	for _, f := range d.InputFormats {
		if f == date.InputUnixTimestamp {
			return true
		}
	}
	return false
}

// ParseString tries every input format in order and returns the first match truncated to the field precision.
func (d *DatetimeOptions) ParseString(s string) (time.Time, error) {
	for _, f := range d.InputFormats {
		if t, err := f.ParseString(s); err == nil {
			return date.Truncate(t, d.Precision), nil
		}
	}

	return time.Time{}, fmt.Errorf("'%s' does not match any of the input formats %v", s, d.InputFormats)
}

// FromUnixInt converts an integer timestamp, the unit is inferred from the magnitude.
func (d *DatetimeOptions) FromUnixInt(v int64) (time.Time, error) {
	if !d.AcceptsUnix() {
		return time.Time{}, fmt.Errorf("numeric value %d is not accepted, '%s' is not an input format", v, date.InputUnixTimestamp)
	}
	return date.Truncate(date.FromUnixInt(v), d.Precision), nil
}

func (d *DatetimeOptions) FromUnix(v float64) (time.Time, error) {
	if !d.AcceptsUnix() {
		return time.Time{}, fmt.Errorf("numeric value %v is not accepted, '%s' is not an input format", v, date.InputUnixTimestamp)
	}
	return date.Truncate(date.FromUnix(v), d.Precision), nil
}

// Output renders t in the output format.
func (d *DatetimeOptions) Output(t time.Time) any {
	return d.OutputFormat.Format(t)
}

func (d *DatetimeOptions) inputFormatNames() []string {
	names := make([]string, len(d.InputFormats))
	for i, f := range d.InputFormats {
		names[i] = string(f)
	}
	return names
}
