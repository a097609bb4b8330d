package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseLookup,
				Kind:     KindNotFound,
				Resource: "media_engine",
				Handle:   42,
				Detail:   "resolve dependency",
			},
			contains: []string{"[lookup]", "not_found", "media_engine", "handle 42", "resolve dependency"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseValidate,
				Kind:  KindInvalidInput,
			},
			contains: []string{"[validate]", "invalid_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseConstruct,
				Kind:   KindEngine,
				Detail: "new peer connection",
				Cause:  errors.New("unsupported codec"),
			},
			contains: []string{"[construct]", "engine", "new peer connection", "caused by", "unsupported codec"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseConstruct,
		Kind:  KindEngine,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:    PhaseLookup,
		Kind:     KindNotFound,
		Resource: "registry",
		Handle:   7,
	}

	// Matches on Phase+Kind regardless of detail fields
	if !errors.Is(err, &Error{Phase: PhaseLookup, Kind: KindNotFound}) {
		t.Error("expected match on Phase+Kind")
	}

	if errors.Is(err, &Error{Phase: PhaseLookup, Kind: KindKindMismatch}) {
		t.Error("unexpected match across kinds")
	}

	if errors.Is(err, &Error{Phase: PhaseRuntime, Kind: KindNotFound}) {
		t.Error("unexpected match across phases")
	}

	if errors.Is(err, errors.New("plain")) {
		t.Error("unexpected match against plain error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("dtls failure")
	err := New(PhaseConstruct, KindEngine).
		Resource("peer_connection").
		Handle(99).
		Cause(cause).
		Detail("connect attempt %d", 3).
		Build()

	if err.Phase != PhaseConstruct || err.Kind != KindEngine {
		t.Fatalf("wrong phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.Resource != "peer_connection" || err.Handle != 99 {
		t.Errorf("wrong resource/handle: %s/%d", err.Resource, err.Handle)
	}
	if err.Detail != "connect attempt 3" {
		t.Errorf("wrong detail: %q", err.Detail)
	}
	if !errors.Is(err.Unwrap(), cause) {
		t.Error("cause not preserved")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFound("api", 1)) {
		t.Error("NotFound should categorize as not-found")
	}
	if !IsNotFound(KindMismatch("api", "registry", 1)) {
		t.Error("KindMismatch should categorize as not-found")
	}
	if IsNotFound(Engine("api", errors.New("x"))) {
		t.Error("engine error should not categorize as not-found")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("plain error should not categorize as not-found")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err   *Error
		phase Phase
		kind  Kind
	}{
		{InvalidInput("bad json"), PhaseValidate, KindInvalidInput},
		{InvalidICEURL("stun:?", errors.New("parse")), PhaseValidate, KindInvalidICEURL},
		{NotFound("registry", 5), PhaseLookup, KindNotFound},
		{KindMismatch("api", "config", 5), PhaseLookup, KindKindMismatch},
		{Engine("media_engine", errors.New("x")), PhaseConstruct, KindEngine},
		{DuplicateHandle("registry", 5), PhaseRuntime, KindDuplicateHandle},
		{Exhausted(), PhaseRuntime, KindExhausted},
		{Closed("table closed"), PhaseRuntime, KindClosed},
		{Internal("recovered", nil), PhaseRuntime, KindInternal},
	}

	for _, tt := range tests {
		if tt.err.Phase != tt.phase || tt.err.Kind != tt.kind {
			t.Errorf("%v: got %s/%s, want %s/%s", tt.err, tt.err.Phase, tt.err.Kind, tt.phase, tt.kind)
		}
	}
}
