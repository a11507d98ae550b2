// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"errors"
	"fmt"
	"strings"
)

// Config is a configuration for the loggers.
type Config struct {
	// File is the path of the log file, if empty logs go to stderr.
	File string
	// MaxSize is the size in megabytes at which the file is rotated.
	MaxSize int
	// MaxBackups is the number of rotated files to keep, zero keeps all.
	MaxBackups int
	Level      Level
	Format     Format
}

func DefaultConfig() *Config {
	return &Config{
		MaxSize:    100,
		MaxBackups: 3,
		Level:      InfoLevel,
		Format:     TextFormat,
	}
}

func (c *Config) Validate() error {
	if c.File != "" && c.MaxSize <= 0 {
		return errors.New("log file max size must be positive")
	}
	if c.MaxBackups < 0 {
		return errors.New("log file max backups must be non-negative")
	}
	if c.Level < ErrorLevel || c.Level > DebugLevel {
		return fmt.Errorf("invalid log level %d", c.Level)
	}
	if c.Format < TextFormat || c.Format > JSONFormat {
		return fmt.Errorf("invalid log format %d", c.Format)
	}
	return nil
}

type Level int

// Levels start from 1 to avoid zero value in help printer.
const (
	ErrorLevel Level = 1 + iota
	WarnLevel
	InfoLevel
	DebugLevel
)

var levelNames = [4]string{"error", "warn", "info", "debug"} //nolint:gochecknoglobals // lookup table

func (l Level) String() string {
	if l < ErrorLevel || l > DebugLevel {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l-1]
}

func ParseLevel(s string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(s, n) {
			return Level(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

type Format int

// Formats start from 1 to avoid zero value in help printer.
const (
	TextFormat Format = 1 + iota
	JSONFormat
)

var formatNames = [2]string{"text", "json"} //nolint:gochecknoglobals // lookup table

func (f Format) String() string {
	if f < TextFormat || f > JSONFormat {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f-1]
}

func ParseFormat(s string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(s, n) {
			return Format(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown log format %q", s)
}
