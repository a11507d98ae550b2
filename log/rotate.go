// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatableFile is a log file rotated by size and on SIGHUP.
type RotatableFile struct {
	*lumberjack.Logger

	ch   chan os.Signal
	once sync.Once
	done chan struct{}
}

func NewRotatableFile(cfg *Config) *RotatableFile {
	w := &RotatableFile{
		Logger: &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
		},
		ch:   make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(w.ch, syscall.SIGHUP)
	go w.rotateOnSIGHUP()
	return w
}

func (w *RotatableFile) rotateOnSIGHUP() {
	defer signal.Stop(w.ch)

	for {
		select {
		case <-w.ch:
			if err := w.Rotate(); err != nil {
				w.Logger.Write([]byte("failed to rotate log file: " + err.Error() + "\n")) //nolint:errcheck // best effort
			}
		case <-w.done:
			return
		}
	}
}

func (w *RotatableFile) Close() error {
	w.once.Do(func() {
		close(w.done)
	})
	return w.Logger.Close()
}
