package errx

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"
)

// Code 是对外稳定的错误码
type Code string

// Error 带错误码的错误。哨兵只读，With* 每次返回新对象。
// 系统错误在第一次挂上 cause 时记录调用栈，链上已有栈则不再记录。
type Error struct {
	code  Code
	msg   string
	sys   bool
	data  map[string]any
	cause error
	stack []uintptr
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, sys: true}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := []string{string(e.code)}
	if e.msg != "" {
		parts = append(parts, e.msg)
	}
	if e.cause != nil {
		parts = append(parts, e.cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只比较错误码
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// IsSys IO 与内部错误，传输层返回 500
func (e *Error) IsSys() bool {
	return e != nil && e.sys
}

// Data 返回上下文数据的拷贝
func (e *Error) Data() map[string]any {
	if e == nil {
		return nil
	}
	return maps.Clone(e.data)
}

func (e *Error) Stack() []uintptr {
	if e == nil {
		return nil
	}
	return slices.Clone(e.stack)
}

// StackTrace 把调用栈渲染为 "函数 文件:行" 的多行文本，没有栈时为空串
func (e *Error) StackTrace() string {
	if e == nil || len(e.stack) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s %s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}

func (e *Error) WithMsg(msg string) *Error {
	next := e.clone()
	next.msg = msg
	return next
}

func (e *Error) WithData(key string, value any) *Error {
	return e.WithDataMap(map[string]any{key: value})
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.clone()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	maps.Copy(next.data, data)
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	if next.sys && cause != nil && len(next.stack) == 0 && !hasStack(cause) {
		next.stack = callers()
	}
	return next
}

// As 取出链上的 *Error，其他错误包装为 ErrInternal
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithCause(err)
}

func (e *Error) clone() *Error {
	next := *e
	next.data = maps.Clone(e.data)
	next.stack = slices.Clone(e.stack)
	return &next
}

// callers 跳过 runtime.Callers、callers 与 WithCause 自身
func callers() []uintptr {
	pcs := make([]uintptr, 64)
	return pcs[:runtime.Callers(3, pcs)]
}

func hasStack(err error) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if len(e.stack) > 0 {
				return true
			}
			err = e.cause
			continue
		}
		return false
	}
	return false
}
