// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"strings"
	"time"
)

// RangeEvaluator implements weekdayRange, dateRange and timeRange.
// Unless the last argument is "GMT" the current time is taken in Location, by default the host time zone.
type RangeEvaluator struct {
	Now      func() time.Time
	Location *time.Location
}

func (r *RangeEvaluator) now(gmt bool) time.Time {
	now := time.Now
	if r != nil && r.Now != nil {
		now = r.Now
	}
	t := now()
	if gmt {
		return t.UTC()
	}

	loc := time.Local
	if r != nil && r.Location != nil {
		loc = r.Location
	}
	return t.In(loc)
}

// splitGMT removes the trailing "GMT" argument.
func splitGMT(fn string, args []Arg, maxArgs int) (rest []Arg, gmt bool, err error) {
	if len(args) == 0 || len(args) > maxArgs {
		return nil, false, validationErrorf("", "%s: bad number of arguments %d", fn, len(args))
	}
	if args[len(args)-1].isGMT() {
		return args[:len(args)-1], true, nil
	}
	return args, false, nil
}

var weekdays = map[string]time.Weekday{ //nolint:gochecknoglobals // lookup table
	"SUN": time.Sunday,
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
}

var months = map[string]time.Month{ //nolint:gochecknoglobals // lookup table
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AUG": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DEC": time.December,
}

func token(a Arg) (string, bool) {
	s, ok := a.Text()
	return strings.ToUpper(strings.TrimSpace(s)), ok
}

// inCyclicRange reports whether v is in [from, to], wrapping around when from > to.
func inCyclicRange(v, from, to int) bool {
	if from <= to {
		return from <= v && v <= to
	}
	return v >= from || v <= to
}

// WeekdayRange implements weekdayRange(wd1 [, wd2] [, "GMT"]).
// With two weekdays the range is inclusive and wraps around the end of the week.
func (r *RangeEvaluator) WeekdayRange(args ...Arg) (bool, error) {
	args, gmt, err := splitGMT("weekdayRange", args, 3)
	if err != nil {
		return false, err
	}
	if len(args) < 1 || len(args) > 2 {
		return false, validationErrorf("", "weekdayRange: bad number of weekdays %d", len(args))
	}

	wd := make([]int, len(args))
	for i, a := range args {
		t, _ := token(a)
		d, ok := weekdays[t]
		if !ok {
			return false, validationErrorf(a.String(), "weekdayRange: invalid weekday")
		}
		wd[i] = int(d)
	}

	now := int(r.now(gmt).Weekday())
	if len(wd) == 1 {
		return now == wd[0], nil
	}
	return inCyclicRange(now, wd[0], wd[1]), nil
}

type dateField byte

const (
	dayField   dateField = 'D'
	monthField dateField = 'M'
	yearField  dateField = 'Y'
)

type datePart struct {
	field dateField
	value int
}

func parseDatePart(a Arg) (datePart, error) {
	if t, ok := token(a); ok {
		if m, ok := months[t]; ok {
			return datePart{monthField, int(m)}, nil
		}
	}

	n, ok := a.Int()
	if !ok {
		return datePart{}, validationErrorf(a.String(), "dateRange: invalid argument")
	}
	switch {
	case n >= 1 && n <= 31:
		return datePart{dayField, n}, nil
	case n >= 1000 && n <= 9999:
		return datePart{yearField, n}, nil
	default:
		return datePart{}, validationErrorf(a.String(), "dateRange: value out of range")
	}
}

// DateRange implements dateRange with the forms:
//
//	dateRange(day)
//	dateRange(day1, day2)
//	dateRange(mon)
//	dateRange(month1, month2)
//	dateRange(year)
//	dateRange(year1, year2)
//	dateRange(day1, month1, day2, month2)
//	dateRange(month1, year1, month2, year2)
//	dateRange(day1, month1, year1, day2, month2, year2)
//
// each optionally followed by "GMT".
// Day and month ranges wrap around, ranges that include a year do not.
func (r *RangeEvaluator) DateRange(args ...Arg) (bool, error) {
	args, gmt, err := splitGMT("dateRange", args, 7)
	if err != nil {
		return false, err
	}

	parts := make([]datePart, len(args))
	form := make([]byte, len(args))
	for i, a := range args {
		if parts[i], err = parseDatePart(a); err != nil {
			return false, err
		}
		form[i] = byte(parts[i].field)
	}

	now := r.now(gmt)
	day, month, year := now.Day(), int(now.Month()), now.Year()
	v := func(i int) int { return parts[i].value }

	switch string(form) {
	case "D":
		return day == v(0), nil
	case "M":
		return month == v(0), nil
	case "Y":
		return year == v(0), nil
	case "DD":
		return inCyclicRange(day, v(0), v(1)), nil
	case "MM":
		return inCyclicRange(month, v(0), v(1)), nil
	case "YY":
		return v(0) <= year && year <= v(1), nil
	case "DMDM":
		cur := month*100 + day
		return inCyclicRange(cur, v(1)*100+v(0), v(3)*100+v(2)), nil
	case "MYMY":
		cur := year*100 + month
		start, end := v(1)*100+v(0), v(3)*100+v(2)
		return start <= cur && cur <= end, nil
	case "DMYDMY":
		cur := year*10000 + month*100 + day
		start, end := v(2)*10000+v(1)*100+v(0), v(5)*10000+v(4)*100+v(3)
		return start <= cur && cur <= end, nil
	default:
		return false, validationErrorf("", "dateRange: unsupported argument form %q", form)
	}
}

// TimeRange implements timeRange with the forms:
//
//	timeRange(hour)
//	timeRange(hour1, hour2)
//	timeRange(hour1, min1, hour2, min2)
//	timeRange(hour1, min1, sec1, hour2, min2, sec2)
//
// each optionally followed by "GMT".
// A single hour matches the whole hour, the hour and minute forms include the whole end hour
// or minute and the second form is inclusive.
// A start later than the end wraps over midnight.
func (r *RangeEvaluator) TimeRange(args ...Arg) (bool, error) {
	args, gmt, err := splitGMT("timeRange", args, 7)
	if err != nil {
		return false, err
	}

	var limits []int
	switch len(args) {
	case 1, 2:
		limits = []int{23, 23}
	case 4:
		limits = []int{23, 59, 23, 59}
	case 6:
		limits = []int{23, 59, 59, 23, 59, 59}
	default:
		return false, validationErrorf("", "timeRange: bad number of arguments %d", len(args))
	}

	v := make([]int, len(args))
	for i, a := range args {
		n, ok := a.Int()
		if !ok {
			return false, validationErrorf(a.String(), "timeRange: invalid argument")
		}
		if n < 0 || n > limits[i] {
			return false, validationErrorf(a.String(), "timeRange: value out of range")
		}
		v[i] = n
	}

	now := r.now(gmt)
	hour := now.Hour()
	cur := hour*3600 + now.Minute()*60 + now.Second()

	switch len(v) {
	case 1:
		return hour == v[0], nil
	case 2:
		return inCyclicRange(hour, v[0], v[1]), nil
	case 4:
		return inCyclicRange(cur, v[0]*3600+v[1]*60, v[2]*3600+v[3]*60+59), nil
	default:
		return inCyclicRange(cur, v[0]*3600+v[1]*60+v[2], v[3]*3600+v[4]*60+v[5]), nil
	}
}
