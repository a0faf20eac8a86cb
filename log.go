//  Copyright (c) 2020 The Bluge Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//              http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ringcover

import (
	"io"
	"log"
)

// Log is the logging interface that ringcover's long-running Service
// (service.go) accepts, so that callers can plug in their own
// structured logger instead of being forced onto the standard library
// logger.
type Log interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Error(err error) error
	Errorf(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
}

type StdLibLog log.Logger

func NewStdLibLog(out io.Writer, prefix string, flag int) *StdLibLog {
	l := log.New(out, prefix, flag)
	sll := StdLibLog(*l)
	return &sll
}

func (s *StdLibLog) Print(args ...interface{}) {
	(*log.Logger)(s).Print(args...)
}

func (s *StdLibLog) Printf(format string, args ...interface{}) {
	(*log.Logger)(s).Printf(format, args...)
}

func (s *StdLibLog) Error(err error) error {
	(*log.Logger)(s).Print(err)
	return err
}

func (s *StdLibLog) Errorf(format string, args ...interface{}) {
	(*log.Logger)(s).Printf(format, args...)
}

func (s *StdLibLog) Warn(args ...interface{}) {
	(*log.Logger)(s).Print(args...)
}

func (s *StdLibLog) Warnf(format string, args ...interface{}) {
	(*log.Logger)(s).Printf(format, args...)
}

func (s *StdLibLog) Debug(args ...interface{}) {
	(*log.Logger)(s).Print(args...)
}

func (s *StdLibLog) Debugf(format string, args ...interface{}) {
	(*log.Logger)(s).Printf(format, args...)
}

// nullLog discards everything; used so service.go doesn't need a nil
// check at every call site when a caller hasn't supplied a Log.
type nullLog struct{}

func (nullLog) Print(args ...interface{})                 {}
func (nullLog) Printf(format string, args ...interface{}) {}
func (nullLog) Error(err error) error                     { return err }
func (nullLog) Errorf(format string, args ...interface{}) {}
func (nullLog) Warn(args ...interface{})                  {}
func (nullLog) Warnf(format string, args ...interface{})  {}
func (nullLog) Debug(args ...interface{})                 {}
func (nullLog) Debugf(format string, args ...interface{}) {}
