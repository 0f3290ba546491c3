// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package effect provides the result type shared by the publish dispatchers
// and the background runner that executes detached dispatcher work.
package effect

import (
	"errors"
	"fmt"
)

// Kind classifies a failed outcome.
type Kind string

const (
	KindNotConfigured Kind = "not_configured"
	KindNoSubscribers Kind = "no_subscribers"
	KindNotFound      Kind = "not_found"
	KindProvider      Kind = "provider"
	KindStorage       Kind = "storage"
	KindPlatform      Kind = "platform"
	KindOverloaded    Kind = "overloaded"
	KindPanic         Kind = "panic"
	KindInternal      Kind = "internal"
)

// Skip reports whether the kind describes an expected "nothing to do"
// condition rather than a real failure.
func (k Kind) Skip() bool {
	return k == KindNotConfigured || k == KindNoSubscribers
}

// Outcome is the result of one dispatcher run: either Ok with an optional
// payload, or a failure carrying a Kind and a human-readable detail.
// Outcomes are logged and recorded, never turned back into errors on the
// publish path.
type Outcome struct {
	Effect string `json:"effect"`
	OK     bool   `json:"ok"`
	Kind   Kind   `json:"kind,omitempty"`
	Detail string `json:"detail,omitempty"`
	Info   any    `json:"info,omitempty"`
}

// Ok builds a successful outcome.
func Ok(effect string, info any, detail string) Outcome {
	return Outcome{Effect: effect, OK: true, Info: info, Detail: detail}
}

// Fail builds a failed outcome from err. The kind is taken from the error
// chain when one of its errors was tagged with WithKind, KindInternal
// otherwise.
func Fail(effect string, err error) Outcome {
	if err == nil {
		return Outcome{Effect: effect, OK: false, Kind: KindInternal, Detail: "unknown error"}
	}
	return Outcome{Effect: effect, OK: false, Kind: KindOf(err), Detail: err.Error()}
}

// Failf builds a failed outcome with an explicit kind.
func Failf(effect string, kind Kind, format string, args ...any) Outcome {
	return Outcome{Effect: effect, OK: false, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Err returns the outcome as an error, or nil when it succeeded.
func (o Outcome) Err() error {
	if o.OK {
		return nil
	}
	return &kindError{kind: o.Kind, err: errors.New(o.Detail)}
}

// LogAttrs returns the outcome as slog key/value pairs.
func (o Outcome) LogAttrs() []any {
	attrs := []any{"effect", o.Effect, "ok", o.OK}
	if !o.OK {
		attrs = append(attrs, "kind", string(o.Kind))
	}
	if o.Detail != "" {
		attrs = append(attrs, "detail", o.Detail)
	}
	return attrs
}

// kindError tags an error with a Kind.
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// WithKind tags err with kind so Fail can classify it. Returns nil for a
// nil error.
func WithKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf returns the kind attached to err, or KindInternal.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindInternal
}
