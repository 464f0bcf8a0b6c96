// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reporter

import (
	"sync"

	"github.com/bufbuild/protoidl/ast"
)

// ErrorReporter is responsible for reporting the given error. If the reporter
// returns a non-nil error, parsing will abort with that error. If the reporter
// returns nil, parsing will continue, allowing the parser to try to report as
// many lexical and syntax errors as it can find.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. This is used
// for indicating non-error messages to the calling program for things that do
// not cause the parse to fail but are considered bad practice. Though they are
// just warnings, the details are supplied to the reporter via an error type.
type WarningReporter func(ErrorWithPos)

// Reporter is a type that handles reporting both errors and warnings.
type Reporter interface {
	// Error is called when the given error is encountered. If it returns a
	// non-nil error, the parse is aborted ("fail fast"). Otherwise the parser
	// resynchronizes and keeps going.
	Error(ErrorWithPos) error
	// Warning is called when the given warning is encountered.
	Warning(ErrorWithPos)
}

// NewReporter creates a new reporter that invokes the given functions on error
// or warning. If errs is nil, the reporter fails fast: the first error aborts
// the parse.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

// CollectAll returns a reporter that never aborts, so that every recoverable
// error in the input is reported.
func CollectAll() Reporter {
	return NewReporter(func(ErrorWithPos) error { return nil }, nil)
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler is used by the lexer and parser to report errors and warnings. It
// remembers every error it is handed, in order, so that callers can retrieve
// them all as Diagnostics once the parse completes. It also tracks whether
// the underlying Reporter asked to abort.
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
	diags        Diagnostics
	warnings     Diagnostics
}

// NewHandler creates a new Handler that reports errors and warnings using the
// given reporter. If rep is nil, a default reporter is used, which fails fast
// on the first error and ignores warnings.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf handles an error with the given source position, creating the
// error using the given message format and arguments.
func (h *Handler) HandleErrorf(pos ast.SourcePos, format string, args ...any) error {
	return h.HandleError(Errorf(pos, format, args...))
}

// HandleError handles the given error. If the given err is an ErrorWithPos, it
// is recorded and reported, and this function returns the error returned by the
// reporter. If the given err is NOT an ErrorWithPos, the current operation will
// abort immediately.
//
// If the handler has already aborted (by returning a non-nil error from a prior
// call to HandleError or HandleErrorf), that same error is returned and the
// given error is not reported.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		h.diags = append(h.diags, ewp)
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning handles the given warning. This will delegate to the handler's
// configured reporter.
func (h *Handler) HandleWarning(pos ast.SourcePos, err error) {
	ewp := Error(pos, err)
	h.mu.Lock()
	h.warnings = append(h.warnings, ewp)
	h.mu.Unlock()
	h.reporter.Warning(ewp)
}

// Error returns the handler result. If any errors have been reported then this
// returns a non-nil error. If the reporter never returned a non-nil error then
// ErrInvalidSource is returned. Otherwise, this returns the error returned by
// the  handler's reporter (the same value returned by ReporterError).
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error returned by the handler's reporter. If
// the reporter has either not been invoked (no errors handled) or has not
// returned any non-nil value, then this returns nil.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}

// Diagnostics returns every error reported so far, in the order they were
// reported.
func (h *Handler) Diagnostics() Diagnostics {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append(Diagnostics(nil), h.diags...)
}

// Warnings returns every warning reported so far.
func (h *Handler) Warnings() Diagnostics {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append(Diagnostics(nil), h.warnings...)
}
