// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

type gojaProgram struct {
	p *goja.Program
}

func compileGoja(name, script string) (*gojaProgram, error) {
	p, err := goja.Compile(name, script, false)
	if err != nil {
		return nil, &ParsingError{Reason: "compile", Err: err}
	}
	return &gojaProgram{p: p}, nil
}

func (gp *gojaProgram) newInterpreter(b *bridge) (Interpreter, error) {
	gi := &gojaInterpreter{
		vm:  goja.New(),
		b:   b,
		ctx: context.Background(),
	}

	// Set helper functions.
	for i := range helperDefs {
		d := &helperDefs[i]
		if err := gi.vm.Set(d.name, gi.helper(d)); err != nil {
			return nil, fmt.Errorf("failed to set helper function %s: %w", d.name, err)
		}
	}

	// Evaluate the PAC script.
	if _, err := gi.vm.RunProgram(gp.p); err != nil {
		return nil, &ParsingError{Reason: "evaluate", Err: err}
	}

	return gi, nil
}

// gojaInterpreter runs PAC scripts with the goja JavaScript VM.
type gojaInterpreter struct {
	vm *goja.Runtime
	b  *bridge

	// ctx of the current Invoke call, passed to helper functions.
	ctx context.Context
}

func (gi *gojaInterpreter) helper(d *helperDef) func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := make([]Arg, len(call.Arguments))
		for i, v := range call.Arguments {
			args[i] = gojaArg(v)
		}

		res := gi.b.call(gi.ctx, d, args)
		if res == nil {
			return goja.Undefined()
		}
		return gi.vm.ToValue(res)
	}
}

func gojaArg(v goja.Value) Arg {
	if isNullOrUndefined(v) {
		if v != nil && goja.IsNull(v) {
			return Arg{Kind: KindNull}
		}
		return Arg{Kind: KindUndefined}
	}
	return argOf(v.Export())
}

func isNullOrUndefined(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

func (gi *gojaInterpreter) HasFunction(name string) bool {
	_, ok := goja.AssertFunction(gi.vm.Get(name))
	return ok
}

func (gi *gojaInterpreter) EngineInfo() string {
	return engineInfo("goja", "github.com/dop251/goja")
}

func (gi *gojaInterpreter) Invoke(ctx context.Context, fn string, args ...string) (string, error) {
	f, ok := goja.AssertFunction(gi.vm.Get(fn))
	if !ok {
		return "", fmt.Errorf("PAC script: function %s is not defined", fn)
	}

	gi.ctx = ctx
	stop := interruptOnDone(ctx, func(err error) {
		gi.vm.Interrupt(err)
	})
	defer func() {
		stop()
		gi.vm.ClearInterrupt()
		gi.ctx = context.Background()
	}()

	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = gi.vm.ToValue(a)
	}

	v, err := f(goja.Undefined(), vals...)
	if err != nil {
		var ie *goja.InterruptedError
		if errors.As(err, &ie) && ctx.Err() != nil {
			return "", fmt.Errorf("PAC script interrupted: %w", ctx.Err())
		}
		return "", &ValidationError{Reason: "script error", Err: err}
	}

	if isNullOrUndefined(v) {
		return "", unexpectedReturnType(fmt.Sprint(v))
	}
	s, ok := v.Export().(string)
	if !ok {
		return "", unexpectedReturnType(v.ExportType().String())
	}
	return s, nil
}
