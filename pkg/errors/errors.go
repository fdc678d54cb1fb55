// Package errors gives boreholelog coded errors that the CLI turns into exit
// statuses and the HTTP API turns into response statuses.
//
// Codes fall into a few classes (see [ClassOf]):
//
//   - input: malformed intervals, styles, formats, paths or IDs
//   - missing: an input file, borehole or page that does not exist
//   - no data: a borehole without a single interval
//   - upstream: MongoDB or Redis failed or timed out
//   - render: a drawing backend failed
//   - internal: everything else
//
// A failure on one page of a log is a [PageError]; the other pages are still
// produced, and [PagesFailed] summarizes what was lost.
//
//	err := errors.New(errors.ErrCodeInvalidInterval, "interval %d: top %.2f >= base %.2f", i, top, base)
//	if errors.Is(err, errors.ErrCodeInvalidInterval) {
//	    // reject the borehole
//	}
package errors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidInterval Code = "INVALID_INTERVAL"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidID       Code = "INVALID_ID"

	ErrCodeNoData Code = "NO_DATA"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeRenderFailed Code = "RENDER_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes by who has to act on them.
type Class int

const (
	ClassInternal Class = iota
	ClassInput
	ClassMissing
	ClassNoData
	ClassUpstream
	ClassRender
	ClassUnsupported
)

var classes = map[Code]Class{
	ErrCodeInvalidInput:    ClassInput,
	ErrCodeInvalidInterval: ClassInput,
	ErrCodeInvalidConfig:   ClassInput,
	ErrCodeInvalidFormat:   ClassInput,
	ErrCodeInvalidPath:     ClassInput,
	ErrCodeInvalidID:       ClassInput,
	ErrCodeNotFound:        ClassMissing,
	ErrCodeFileNotFound:    ClassMissing,
	ErrCodeNoData:          ClassNoData,
	ErrCodeNetwork:         ClassUpstream,
	ErrCodeTimeout:         ClassUpstream,
	ErrCodeRenderFailed:    ClassRender,
	ErrCodeUnsupported:     ClassUnsupported,
}

// ClassOf returns the class of err's code. Uncoded errors are internal.
func ClassOf(err error) Class {
	return classes[GetCode(err)]
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Upstream wraps a failure talking to a backing service. Deadlines and
// errors reporting Timeout() become TIMEOUT, the rest NETWORK_ERROR.
func Upstream(cause error, format string, args ...any) *Error {
	var t interface{ Timeout() bool }
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &t) && t.Timeout()) {
		return Wrap(ErrCodeTimeout, cause, format, args...)
	}
	return Wrap(ErrCodeNetwork, cause, format, args...)
}

// UserMessage drops the code prefix and cause from coded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// PageError is a failure confined to one page of a log.
type PageError struct {
	Page int // 1-based
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Code is the code of the underlying failure, RENDER_FAILED if it has none.
func (e *PageError) Code() Code {
	if c := GetCode(e.Err); c != "" {
		return c
	}
	return ErrCodeRenderFailed
}

// PagesFailed summarizes page failures out of total pages as a single
// RENDER_FAILED error wrapping the first failure. It returns nil when
// nothing failed.
func PagesFailed(failed []*PageError, total int) error {
	if len(failed) == 0 {
		return nil
	}
	nums := make([]int, len(failed))
	for i, pe := range failed {
		nums[i] = pe.Page
	}
	sort.Ints(nums)
	list := make([]string, len(nums))
	for i, n := range nums {
		list[i] = strconv.Itoa(n)
	}
	noun := "page"
	if len(nums) > 1 {
		noun = "pages"
	}
	return Wrap(ErrCodeRenderFailed, failed[0], "%s %s of %d failed", noun, strings.Join(list, ", "), total)
}
