// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ArgKind is the script type of a helper function argument.
type ArgKind int

const (
	KindUndefined ArgKind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindObject
)

// Arg is a helper function argument as passed by the script.
// Interpreter adapters convert their values to Arg before calling helpers,
// so that helpers never probe interpreter values directly.
type Arg struct {
	Kind ArgKind
	Str  string
	Num  float64
}

func StringArg(s string) Arg {
	return Arg{Kind: KindString, Str: s}
}

func NumberArg(f float64) Arg {
	return Arg{Kind: KindNumber, Num: f}
}

func IntArg(n int) Arg {
	return NumberArg(float64(n))
}

// argOf converts an exported script value to Arg.
func argOf(v any) Arg {
	switch x := v.(type) {
	case nil:
		return Arg{Kind: KindNull}
	case string:
		return StringArg(x)
	case bool:
		return Arg{Kind: KindBool, Str: strconv.FormatBool(x)}
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return Arg{Kind: KindObject, Str: fmt.Sprint(v)}
	}
	return NumberArg(f)
}

// Text returns the string value, it is ok only for strings.
func (a Arg) Text() (string, bool) {
	return a.Str, a.Kind == KindString
}

// Int returns the integer value of a number or of a string holding a decimal integer.
func (a Arg) Int() (int, bool) {
	switch a.Kind {
	case KindNumber:
		if a.Num != math.Trunc(a.Num) || math.IsInf(a.Num, 0) || math.Abs(a.Num) > math.MaxInt32 {
			return 0, false
		}
		return int(a.Num), true
	case KindString:
		n, err := strconv.Atoi(strings.TrimSpace(a.Str))
		return n, err == nil
	default:
		return 0, false
	}
}

func (a Arg) isGMT() bool {
	s, ok := a.Text()
	return ok && strings.EqualFold(strings.TrimSpace(s), "GMT")
}

func (a Arg) String() string {
	switch a.Kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(a.Str)
	case KindNumber:
		return strconv.FormatFloat(a.Num, 'f', -1, 64)
	default:
		return a.Str
	}
}
