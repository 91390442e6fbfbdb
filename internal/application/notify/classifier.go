package notify

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
)

// timeouter matches the net.Error convention and the publisher's own
// budget-exceeded error.
type timeouter interface{ Timeout() bool }

// coder is implemented by transport errors carrying a short machine code.
type coder interface{ ErrorCode() string }

// stacker is implemented by failures that captured a stack at creation.
type stacker interface{ StackTrace() string }

// Classify normalizes any failure value into a ClassifiedError, whether it is
// an error returned by the transport or a value recovered from a panic inside
// it. It is total: whatever v is, it returns a classification and never panics.
//
// Rules, first match wins:
//  1. nil, including a recovered panic(nil), yields KindUnknown with the sentinel
//  2. an error with a timeout discriminator yields KindTimeout
//  3. any other error yields KindService, with code and stack when carried
//  4. a plain string yields KindString, message verbatim
//  5. a map or struct exposing a message field yields KindObject, code when present
//  6. anything else yields KindUnknown with the sentinel
func Classify(v any) (ce ClassifiedError) {
	defer func() {
		// a misbehaving Error()/field access must not escape the classifier
		if recover() != nil {
			ce = unclassified()
		}
	}()

	if isNil(v) {
		return unclassified()
	}
	switch x := v.(type) {
	case *runtime.PanicNilError:
		return unclassified()
	case error:
		return classifyError(x)
	case string:
		if x == "" {
			return unclassified()
		}
		return ClassifiedError{Kind: KindString, Message: x}
	}
	if msg, code, ok := structuredFields(v); ok {
		return ClassifiedError{Kind: KindObject, Message: msg, Code: code}
	}
	return unclassified()
}

func unclassified() ClassifiedError {
	return ClassifiedError{Kind: KindUnknown, Message: UnknownMessage}
}

func classifyError(err error) ClassifiedError {
	if isTimeout(err) {
		return ClassifiedError{Kind: KindTimeout, Message: err.Error()}
	}

	ce := ClassifiedError{Kind: KindService, Message: err.Error()}

	var ae *amqp.Error
	var c coder
	switch {
	case errors.As(err, &ae):
		ce.Code = strconv.Itoa(ae.Code)
	case errors.As(err, &c):
		ce.Code = c.ErrorCode()
	}

	var s stacker
	if errors.As(err, &s) {
		ce.Stack = s.StackTrace()
	}
	return ce
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t timeouter
	return errors.As(err, &t) && t.Timeout()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// structuredFields extracts message/code from a map or a struct with an
// exported Message field. Reflection is guarded so no input shape can panic.
func structuredFields(v any) (msg, code string, ok bool) {
	switch m := v.(type) {
	case map[string]any:
		s, sok := m["message"].(string)
		if !sok || s == "" {
			return "", "", false
		}
		return s, scalarString(m["code"]), true
	case map[string]string:
		if m["message"] == "" {
			return "", "", false
		}
		return m["message"], m["code"], true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", "", false
	}
	f := rv.FieldByName("Message")
	if !f.IsValid() || f.Kind() != reflect.String || f.String() == "" {
		return "", "", false
	}
	msg = f.String()
	if c := rv.FieldByName("Code"); c.IsValid() {
		switch c.Kind() {
		case reflect.String:
			code = c.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			code = strconv.FormatInt(c.Int(), 10)
		}
	}
	return msg, code, true
}

func scalarString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	}
	return ""
}
