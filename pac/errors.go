// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"fmt"
)

// ParsingError is returned when a PAC script cannot be loaded.
// It is a construction time error, the script is not going to load on retry.
type ParsingError struct {
	Reason string
	Err    error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("PAC script: %s: %v", e.Reason, e.Err)
	}
	return "PAC script: " + e.Reason
}

func (e *ParsingError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a value produced or consumed by a PAC script cannot be interpreted.
// Input holds the offending value, for FindProxyForURL it is the string returned by the script.
type ValidationError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("PAC validation: %s", e.Reason)
	if e.Input != "" {
		msg += fmt.Sprintf(" in %q", e.Input)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func validationErrorf(input, format string, args ...any) *ValidationError {
	return &ValidationError{
		Input:  input,
		Reason: fmt.Sprintf(format, args...),
	}
}
