package effect

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailClassifiesTaggedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
		{name: "tagged", err: WithKind(KindProvider, errors.New("tts down")), want: KindProvider},
		{name: "wrapped tag", err: fmt.Errorf("audio: %w", WithKind(KindStorage, errors.New("s3"))), want: KindStorage},
		{name: "nil", err: nil, want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Fail("audio", tt.err)
			if o.OK {
				t.Fatal("expected failed outcome")
			}
			if o.Kind != tt.want {
				t.Errorf("kind: got %q, want %q", o.Kind, tt.want)
			}
		})
	}
}

func TestWithKindNil(t *testing.T) {
	if WithKind(KindProvider, nil) != nil {
		t.Error("WithKind(nil) should return nil")
	}
}

func TestOutcomeErr(t *testing.T) {
	if err := Ok("social", nil, "").Err(); err != nil {
		t.Errorf("Ok outcome Err: got %v, want nil", err)
	}

	err := Failf("newsletter", KindNoSubscribers, "no active subscribers for %s", "trapglow").Err()
	if err == nil {
		t.Fatal("expected error from failed outcome")
	}
	if KindOf(err) != KindNoSubscribers {
		t.Errorf("kind: got %q, want %q", KindOf(err), KindNoSubscribers)
	}
	if err.Error() != "no active subscribers for trapglow" {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestKindSkip(t *testing.T) {
	if !KindNotConfigured.Skip() || !KindNoSubscribers.Skip() {
		t.Error("not_configured and no_subscribers should be skip kinds")
	}
	if KindProvider.Skip() {
		t.Error("provider failure is not a skip")
	}
}
