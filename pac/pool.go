// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"sync"
)

// interpreterPool holds idle interpreters of a program.
// An interpreter is owned by a single caller between get and put.
type interpreterPool struct {
	pool sync.Pool
	prog program
	b    *bridge
}

// newInterpreterPool creates the pool with one interpreter, which is also returned for inspection.
func newInterpreterPool(prog program, b *bridge) (*interpreterPool, Interpreter, error) {
	i, err := prog.newInterpreter(b)
	if err != nil {
		return nil, nil, err
	}

	p := &interpreterPool{
		prog: prog,
		b:    b,
	}
	p.put(i)

	return p, i, nil
}

func (p *interpreterPool) get() (Interpreter, error) {
	if v := p.pool.Get(); v != nil {
		return v.(Interpreter), nil //nolint:forcetypeassert // we know it's an Interpreter
	}
	return p.prog.newInterpreter(p.b)
}

func (p *interpreterPool) put(i Interpreter) {
	p.pool.Put(i)
}
