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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Schedule is how often the retention policy is evaluated.
type Schedule string

const (
	ScheduleHourly  Schedule = "hourly"
	ScheduleDaily   Schedule = "daily"
	ScheduleWeekly  Schedule = "weekly"
	ScheduleMonthly Schedule = "monthly"

	DefaultSchedule = ScheduleDaily
)

func ParseSchedule(s string) (Schedule, error) {
	switch sc := Schedule(strings.ToLower(strings.TrimSpace(s))); sc {
	case ScheduleHourly, ScheduleDaily, ScheduleWeekly, ScheduleMonthly:
		return sc, nil
	default:
		return "", fmt.Errorf("unsupported schedule '%s', expected one of hourly, daily, weekly, monthly", s)
	}
}

type periodUnit struct {
	name string
	d    time.Duration
}

var periodUnits = map[string]periodUnit{
	"s":       {"second", time.Second},
	"sec":     {"second", time.Second},
	"secs":    {"second", time.Second},
	"second":  {"second", time.Second},
	"seconds": {"second", time.Second},
	"m":       {"minute", time.Minute},
	"min":     {"minute", time.Minute},
	"mins":    {"minute", time.Minute},
	"minute":  {"minute", time.Minute},
	"minutes": {"minute", time.Minute},
	"h":       {"hour", time.Hour},
	"hour":    {"hour", time.Hour},
	"hours":   {"hour", time.Hour},
	"d":       {"day", 24 * time.Hour},
	"day":     {"day", 24 * time.Hour},
	"days":    {"day", 24 * time.Hour},
	"w":       {"week", 7 * 24 * time.Hour},
	"week":    {"week", 7 * 24 * time.Hour},
	"weeks":   {"week", 7 * 24 * time.Hour},
}

// ParsePeriod parses "<n> <unit>", e.g. "90 days" or "12h". It returns the duration and the expression in its
// normalized form.
func ParsePeriod(s string) (time.Duration, string, error) {
	expr := strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexFunc(expr, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return 0, "", fmt.Errorf("invalid period '%s', expected '<n> <unit>'", s)
	}

	n, err := strconv.ParseInt(expr[:i], 10, 64)
	if err != nil || n <= 0 {
		return 0, "", fmt.Errorf("invalid period '%s', the amount must be a positive integer", s)
	}

	unit, ok := periodUnits[strings.TrimSpace(expr[i:])]
	if !ok {
		return 0, "", fmt.Errorf("invalid period '%s', unit must be one of seconds, minutes, hours, days, weeks", s)
	}
	if n > math.MaxInt64/int64(unit.d) {
		return 0, "", fmt.Errorf("invalid period '%s', the period is too long", s)
	}

	name := unit.name
	if n > 1 {
		name += "s"
	}

	return time.Duration(n) * unit.d, fmt.Sprintf("%d %s", n, name), nil
}
