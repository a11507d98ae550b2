// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
)

// Engine selects the JavaScript interpreter used to run PAC scripts.
type Engine int

// Engines start from 1 to avoid zero value in help printer.
const (
	GojaEngine Engine = 1 + iota
	OttoEngine
)

func (e Engine) String() string {
	switch e {
	case GojaEngine:
		return "goja"
	case OttoEngine:
		return "otto"
	default:
		return fmt.Sprintf("Engine(%d)", int(e))
	}
}

func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goja":
		return GojaEngine, nil
	case "otto":
		return OttoEngine, nil
	default:
		return 0, fmt.Errorf("unknown engine %q", s)
	}
}

// Interpreter runs a loaded PAC script.
// The helper functions are installed before the script is run.
// Interpreters are not safe for concurrent use.
type Interpreter interface {
	// Invoke calls the script function fn with string arguments and returns its string result.
	// A result that is not a string is a *ValidationError.
	// Cancelling ctx interrupts the script.
	Invoke(ctx context.Context, fn string, args ...string) (string, error)
	// HasFunction reports whether the script defines a function named name.
	HasFunction(name string) bool
	// EngineInfo describes the interpreter.
	EngineInfo() string
}

// program is a script compiled once and instantiated per interpreter.
type program interface {
	newInterpreter(b *bridge) (Interpreter, error)
}

func compile(e Engine, name, script string) (program, error) {
	switch e {
	case GojaEngine:
		return compileGoja(name, script)
	case OttoEngine:
		return compileOtto(name, script)
	default:
		return nil, &ParsingError{Reason: fmt.Sprintf("unsupported engine %s", e)}
	}
}

func engineInfo(name, modulePath string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return name
	}
	for _, m := range bi.Deps {
		if m.Path == modulePath {
			return name + " " + m.Version
		}
	}
	return name
}

// interruptOnDone calls interrupt if ctx is done before the returned stop function is called.
// After stop returns interrupt is not going to be called.
func interruptOnDone(ctx context.Context, interrupt func(err error)) (stop func()) {
	if ctx.Done() == nil {
		return func() {}
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			interrupt(ctx.Err())
		case <-done:
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}

func unexpectedReturnType(kind string) *ValidationError {
	return &ValidationError{
		Reason: fmt.Sprintf("unexpected return type %s", kind),
	}
}
