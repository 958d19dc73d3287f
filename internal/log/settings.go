// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
	"os"
)

// Format is the format of the log output.
type Format uint8

const (
	// FormatConsole prints the level with its terminal colour.
	FormatConsole Format = iota
	// FormatPlain prints the level without colour codes.
	FormatPlain
)

type contextKeyValues struct {
	key    string
	values []string
}

type settings struct {
	writer  io.Writer
	level   *Level
	format  *Format
	caller  callerSettings
	context []contextKeyValues
}

func newSettings(options []Option) (settings settings) {
	for _, option := range options {
		option(&settings)
	}
	return settings
}

// mergeWith sets values for each field not set in the
// receiving settings from the other settings given.
// The context key values are appended after the receiver ones.
func (s *settings) mergeWith(other settings) {
	if other.writer != nil {
		s.writer = other.writer
	}

	if other.level != nil && *other.level != DoNotChange {
		level := *other.level
		s.level = &level
	}

	if other.format != nil {
		format := *other.format
		s.format = &format
	}

	s.caller.mergeWith(other.caller)

	for _, kv := range other.context {
		s.addContext(kv.key, kv.values...)
	}
}

func (s *settings) addContext(key string, values ...string) {
	for i := range s.context {
		if s.context[i].key == key {
			s.context[i].values = append(s.context[i].values, values...)
			return
		}
	}
	copied := make([]string, len(values))
	copy(copied, values)
	s.context = append(s.context, contextKeyValues{key: key, values: copied})
}

func (s *settings) setDefaults() {
	if s.writer == nil {
		s.writer = os.Stdout
	}

	if s.level == nil {
		level := Info
		s.level = &level
	}

	if s.format == nil {
		format := FormatConsole
		s.format = &format
	}

	s.caller.setDefaults()
}
