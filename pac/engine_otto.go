// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"context"
	"fmt"

	"github.com/robertkrimen/otto"
)

type ottoProgram struct {
	s *otto.Script
}

func compileOtto(name, script string) (*ottoProgram, error) {
	s, err := otto.New().Compile(name, script)
	if err != nil {
		return nil, &ParsingError{Reason: "compile", Err: err}
	}
	return &ottoProgram{s: s}, nil
}

func (op *ottoProgram) newInterpreter(b *bridge) (Interpreter, error) {
	oi := &ottoInterpreter{
		vm:  otto.New(),
		b:   b,
		ctx: context.Background(),
	}
	oi.vm.Interrupt = make(chan func(), 1)

	for i := range helperDefs {
		d := &helperDefs[i]
		if err := oi.vm.Set(d.name, oi.helper(d)); err != nil {
			return nil, fmt.Errorf("failed to set helper function %s: %w", d.name, err)
		}
	}

	if _, err := oi.vm.Run(op.s); err != nil {
		return nil, &ParsingError{Reason: "evaluate", Err: err}
	}

	return oi, nil
}

// ottoInterpreter runs PAC scripts with the otto JavaScript interpreter.
type ottoInterpreter struct {
	vm *otto.Otto
	b  *bridge

	// ctx of the current Invoke call, passed to helper functions.
	ctx context.Context
}

type ottoHalt struct {
	err error
}

func (oi *ottoInterpreter) helper(d *helperDef) func(call otto.FunctionCall) otto.Value {
	return func(call otto.FunctionCall) otto.Value {
		args := make([]Arg, len(call.ArgumentList))
		for i, v := range call.ArgumentList {
			args[i] = ottoArg(v)
		}

		res := oi.b.call(oi.ctx, d, args)
		if res == nil {
			return otto.UndefinedValue()
		}
		v, err := oi.vm.ToValue(res)
		if err != nil {
			return otto.UndefinedValue()
		}
		return v
	}
}

func ottoArg(v otto.Value) Arg {
	switch {
	case v.IsUndefined():
		return Arg{Kind: KindUndefined}
	case v.IsNull():
		return Arg{Kind: KindNull}
	case v.IsString():
		return StringArg(v.String())
	case v.IsNumber():
		f, err := v.ToFloat()
		if err != nil {
			return Arg{Kind: KindObject, Str: v.String()}
		}
		return NumberArg(f)
	case v.IsBoolean():
		return Arg{Kind: KindBool, Str: v.String()}
	default:
		return Arg{Kind: KindObject, Str: v.String()}
	}
}

func ottoKind(v otto.Value) string {
	switch {
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "null"
	case v.IsNumber():
		return "number"
	case v.IsBoolean():
		return "boolean"
	case v.IsFunction():
		return "function"
	default:
		return v.Class()
	}
}

func (oi *ottoInterpreter) HasFunction(name string) bool {
	v, err := oi.vm.Get(name)
	return err == nil && v.IsFunction()
}

func (oi *ottoInterpreter) EngineInfo() string {
	return engineInfo("otto", "github.com/robertkrimen/otto")
}

func (oi *ottoInterpreter) Invoke(ctx context.Context, fn string, args ...string) (res string, err error) {
	f, err := oi.vm.Get(fn)
	if err != nil || !f.IsFunction() {
		return "", fmt.Errorf("PAC script: function %s is not defined", fn)
	}

	oi.ctx = ctx
	stop := interruptOnDone(ctx, func(err error) {
		select {
		case oi.vm.Interrupt <- func() { panic(ottoHalt{err}) }:
		default:
		}
	})
	defer func() {
		stop()
		select {
		case <-oi.vm.Interrupt:
		default:
		}
		oi.ctx = context.Background()

		if r := recover(); r != nil {
			h, ok := r.(ottoHalt)
			if !ok {
				panic(r)
			}
			res, err = "", fmt.Errorf("PAC script interrupted: %w", h.err)
		}
	}()

	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}

	v, err := f.Call(otto.UndefinedValue(), vals...)
	if err != nil {
		return "", &ValidationError{Reason: "script error", Err: err}
	}

	if !v.IsString() {
		return "", unexpectedReturnType(ottoKind(v))
	}
	return v.String(), nil
}
