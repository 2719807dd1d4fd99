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

package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		input    string
		expected time.Duration
		expr     string
		expError bool
	}{
		{"90 days", 90 * 24 * time.Hour, "90 days", false},
		{"1 day", 24 * time.Hour, "1 day", false},
		{"  2 Weeks ", 14 * 24 * time.Hour, "2 weeks", false},
		{"12h", 12 * time.Hour, "12 hours", false},
		{"30 mins", 30 * time.Minute, "30 minutes", false},
		{"45 s", 45 * time.Second, "45 seconds", false},
		{"0 days", 0, "", true},
		{"-1 days", 0, "", true},
		{"days", 0, "", true},
		{"10 fortnights", 0, "", true},
		{"1.5 days", 0, "", true},
		{"99999999999999 weeks", 0, "", true},
		{"", 0, "", true},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			d, expr, err := ParsePeriod(c.input)
			if c.expError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.expected, d)
			require.Equal(t, c.expr, expr)
		})
	}
}

func TestParseSchedule(t *testing.T) {
	for _, s := range []string{"hourly", "daily", "Weekly", "monthly"} {
		_, err := ParseSchedule(s)
		require.NoError(t, err, s)
	}

	_, err := ParseSchedule("yearly")
	require.Error(t, err)
}
