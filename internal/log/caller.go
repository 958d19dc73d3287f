// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// callerDepth is the number of frames between runtime.Caller
// and the code calling a Logger method.
const callerDepth = 3

type callerSettings struct {
	file *bool
	line *bool
	funC *bool
}

func copyBool(dst **bool, src *bool) {
	if src == nil {
		return
	}
	value := *src
	*dst = &value
}

func defaultBool(dst **bool) {
	if *dst == nil {
		*dst = new(bool)
	}
}

func (c *callerSettings) mergeWith(other callerSettings) {
	copyBool(&c.file, other.file)
	copyBool(&c.line, other.line)
	copyBool(&c.funC, other.funC)
}

func (c *callerSettings) setDefaults() {
	defaultBool(&c.file)
	defaultBool(&c.line)
	defaultBool(&c.funC)
}

func (c callerSettings) enabled() bool {
	return *c.file || *c.line || *c.funC
}

// getCallerString returns the colon separated caller fields enabled,
// or the empty string if none is enabled.
func getCallerString(settings callerSettings) string {
	if !settings.enabled() {
		return ""
	}

	pc, file, line, ok := runtime.Caller(callerDepth)
	if !ok {
		return "error"
	}

	fields := make([]string, 0, 3)
	if *settings.file {
		fields = append(fields, filepath.Base(file))
	}
	if *settings.line {
		fields = append(fields, "L"+strconv.Itoa(line))
	}
	if *settings.funC {
		if details := runtime.FuncForPC(pc); details != nil {
			fields = append(fields, strings.TrimPrefix(filepath.Ext(details.Name()), "."))
		}
	}

	return strings.Join(fields, ":")
}
