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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputFormat(t *testing.T) {
	for _, f := range []string{"unix_timestamp", "rfc3339", "rfc2822", "iso8601", "%Y-%m-%d %H:%M:%S"} {
		parsed, err := ParseInputFormat(f)
		require.NoError(t, err, f)
		require.Equal(t, InputFormat(f), parsed)
	}

	for _, f := range []string{"", "unix", "YYYY-MM-DD", "RFC3339"} {
		_, err := ParseInputFormat(f)
		require.Error(t, err, f)
	}

	require.True(t, InputFormat("%Y").IsPattern())
	require.False(t, InputRFC3339.IsPattern())
}

func TestInputFormat_ParseString(t *testing.T) {
	validCases := []struct {
		name     string
		format   InputFormat
		date     string
		expected int64
	}{
		{"UTC RFC 3339", InputRFC3339, "2022-10-18T00:51:07+00:00", 1666054267000000000},
		{"UTC RFC 3339 Nano", InputRFC3339, "2022-10-18T00:51:07.528106+00:00", 1666054267528106000},
		{"IST RFC 3339", InputRFC3339, "2022-10-11T04:19:32+05:30", 1665442172000000000},
		{"No TZ RFC 3339", InputRFC3339, "2022-10-18T00:51:07Z", 1666054267000000000},
		{"RFC 2822", InputRFC2822, "Tue, 18 Oct 2022 00:51:07 +0000", 1666054267000000000},
		{"ISO 8601 date", InputISO8601, "2022-10-18", 1666051200000000000},
		{"ISO 8601 basic offset", InputISO8601, "2022-10-18T00:51:07+0000", 1666054267000000000},
		{"unix seconds", InputUnixTimestamp, "1666054267", 1666054267000000000},
		{"unix millis", InputUnixTimestamp, "1666054267528", 1666054267528000000},
		{"unix micros", InputUnixTimestamp, "1666054267528106", 1666054267528106000},
		{"unix nanos", InputUnixTimestamp, "1666054267528106123", 1666054267528106123},
		{"unix fractional seconds", InputUnixTimestamp, "1666054267.5", 1666054267500000000},
	}

	for _, v := range validCases {
		t.Run(v.name, func(t *testing.T) {
			actual, err := v.format.ParseString(v.date)
			assert.NoError(t, err)
			assert.Equal(t, v.expected, actual.UnixNano())
		})
	}

	failureCases := []struct {
		name   string
		format InputFormat
		date   string
	}{
		{"RFC 1123 as RFC 3339", InputRFC3339, "Mon, 02 Jan 2006 15:04:05 MST"},
		{"text as unix", InputUnixTimestamp, "yesterday"},
		{"RFC 3339 as RFC 2822", InputRFC2822, "2022-10-18T00:51:07Z"},
	}

	for _, v := range failureCases {
		t.Run(v.name, func(t *testing.T) {
			_, err := v.format.ParseString(v.date)
			assert.Error(t, err)
		})
	}
}

func TestPrecisionAndOutput(t *testing.T) {
	_, err := ParsePrecision("days")
	require.Error(t, err)

	p, err := ParsePrecision("milliseconds")
	require.NoError(t, err)
	require.Equal(t, time.Millisecond, p.Unit())
	require.True(t, Nanoseconds.FinerThan(Milliseconds))
	require.False(t, Seconds.FinerThan(Seconds))

	_, err = ParseOutputFormat("unix_timestamp")
	require.Error(t, err)

	f, err := ParseOutputFormat("unix_timestamp_millis")
	require.NoError(t, err)
	require.True(t, f.IsUnix())
	require.Equal(t, Milliseconds, f.Granularity())
	require.False(t, OutputRFC3339.IsUnix())

	ts := time.Unix(1666054267, 528106123).UTC()
	require.Equal(t, int64(1666054267), OutputUnixSeconds.Format(ts))
	require.Equal(t, int64(1666054267528), OutputUnixMillis.Format(ts))
	require.Equal(t, int64(1666054267528106), OutputUnixMicros.Format(ts))
	require.Equal(t, int64(1666054267528106123), OutputUnixNanos.Format(ts))
	require.Equal(t, "2022-10-18T00:51:07.528106123Z", OutputRFC3339.Format(ts))
	require.Equal(t, "Tue, 18 Oct 2022 00:51:07 +0000", OutputRFC2822.Format(ts))

	require.Equal(t, int64(1666054267528000000), Truncate(ts, Milliseconds).UnixNano())
	require.Equal(t, int64(1666054267000000000), Truncate(ts, Seconds).UnixNano())
}
