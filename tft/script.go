// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"fmt"
	"time"
)

// Script is a vendor initialization table.
//
// The format is: the number of commands, then for each command the opcode,
// the number of arguments, the arguments and, if bit 7 of the number of
// arguments is set, a delay in milliseconds to wait after the command. A delay
// of 255 means 500ms.
//
// Scripts are trusted input: a table whose command count does not match its
// content makes RunScript panic.
type Script []byte

// Command is one entry of a Script.
type Command struct {
	Op   byte
	Args []byte
	// Delay to wait after the command. It must be 500ms or below 255ms.
	Delay time.Duration
}

const (
	scriptDelay     = 0x80
	scriptLongDelay = 255
	longDelay       = 500 * time.Millisecond
)

// Encode returns the Script for cmds.
func Encode(cmds ...Command) Script {
	if len(cmds) > 255 {
		panic("tft: too many commands in script")
	}
	s := Script{byte(len(cmds))}
	for _, c := range cmds {
		if len(c.Args) >= scriptDelay {
			panic(fmt.Sprintf("tft: command 0x%02X has too many arguments", c.Op))
		}
		n := byte(len(c.Args))
		if c.Delay != 0 {
			n |= scriptDelay
		}
		s = append(s, c.Op, n)
		s = append(s, c.Args...)
		if c.Delay != 0 {
			s = append(s, encodeDelay(c.Op, c.Delay))
		}
	}
	return s
}

func encodeDelay(op byte, d time.Duration) byte {
	if d == longDelay {
		return scriptLongDelay
	}
	ms := d / time.Millisecond
	if ms <= 0 || ms >= scriptLongDelay {
		panic(fmt.Sprintf("tft: command 0x%02X has unsupported delay %s", op, d))
	}
	return byte(ms)
}

// Commands decodes s. It panics if s is malformed.
func (s Script) Commands() []Command {
	var out []Command
	s.walk(func(c Command) error {
		out = append(out, c)
		return nil
	})
	return out
}

// walk calls fn for each command of s in order and stops at the first error.
func (s Script) walk(fn func(c Command) error) error {
	if len(s) == 0 {
		panic("tft: malformed init script: empty")
	}
	i := 0
	next := func() byte {
		if i >= len(s) {
			panic(fmt.Sprintf("tft: malformed init script: truncated at offset %d", i))
		}
		b := s[i]
		i++
		return b
	}
	for count := next(); count > 0; count-- {
		c := Command{Op: next()}
		n := next()
		args := int(n &^ scriptDelay)
		if i+args > len(s) {
			panic(fmt.Sprintf("tft: malformed init script: command 0x%02X at offset %d needs %d arguments", c.Op, i-2, args))
		}
		c.Args = s[i : i+args]
		i += args
		if n&scriptDelay != 0 {
			ms := next()
			if ms == scriptLongDelay {
				c.Delay = longDelay
			} else {
				c.Delay = time.Duration(ms) * time.Millisecond
			}
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

// runScript sends each command of s with its arguments and waits for the
// post command delays. The bus must be owned by the caller.
func (d *Dev) runScript(s Script) error {
	return s.walk(func(c Command) error {
		d.log.Debug().Hex("cmd", []byte{c.Op}).Int("args", len(c.Args)).Dur("delay", c.Delay).Msg("init")
		if err := d.cmdData(c.Op, c.Args); err != nil {
			return err
		}
		if c.Delay != 0 {
			d.sleep(c.Delay)
		}
		return nil
	})
}
