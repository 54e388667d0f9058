package app

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestOperationError(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"op only", NewOperationError("reload", "", nil), "reload"},
		{"target", NewOperationError("execute", "u1", base), "execute u1: boom"},
		{"context", NewOperationError("execute", "u1", base).WithContext("[cmd_menu]"), "execute u1 ([cmd_menu]): boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	err := NewOperationError("execute", "u1", base)
	if !errors.Is(err, base) {
		t.Error("OperationError should match the wrapped error")
	}
	if errors.Is(err, NewOperationError("execute", "u1", base)) {
		t.Error("distinct OperationErrors should not match")
	}

	var nilErr *OperationError
	if nilErr.WithContext("x") != nil || nilErr.Error() != "" || nilErr.Unwrap() != nil {
		t.Error("nil OperationError should be inert")
	}
}

func TestComponentError(t *testing.T) {
	base := errors.New("no such device")

	tests := []struct {
		err  *ComponentError
		want string
	}{
		{NewComponentError("device", "open", base), "device: open: no such device"},
		{NewComponentError("device", "open", nil), "device: open"},
		{NewComponentError("device", "", base), "device: no such device"},
		{NewComponentError("device", "", nil), "device"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}

	err := NewComponentError("device", "open", base)
	if !errors.Is(err, ErrInitialization) {
		t.Error("ComponentError should match ErrInitialization")
	}
	if !errors.Is(err, base) {
		t.Error("ComponentError should match the wrapped error")
	}
	if errors.Is(err, ErrAlreadyRunning) {
		t.Error("ComponentError should not match ErrAlreadyRunning")
	}
}

func TestRecoveredPanicError(t *testing.T) {
	err := NewRecoveredPanicError("oops", "")
	if err.Error() != "panic: oops" {
		t.Errorf("Error() = %q", err.Error())
	}
	err = NewRecoveredPanicError(42, "goroutine 1")
	if !strings.HasPrefix(err.Error(), "panic: 42\n") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordUtterance()
	m.RecordUtterance()
	m.RecordUtterance()
	m.RecordNoAction()
	m.RecordFailure()
	m.RecordReload()
	m.RecordExecution(10 * time.Millisecond)
	m.RecordExecution(30 * time.Millisecond)

	s := m.Snapshot()
	if s.Utterances != 3 || s.NoActions != 1 || s.Failures != 1 || s.Reloads != 1 || s.Executed != 2 {
		t.Errorf("Snapshot() counts = %+v", s)
	}
	if s.AvgExecTime != 20*time.Millisecond {
		t.Errorf("AvgExecTime = %v, want 20ms", s.AvgExecTime)
	}
	if s.MaxExecTime != 30*time.Millisecond {
		t.Errorf("MaxExecTime = %v, want 30ms", s.MaxExecTime)
	}
	if s.Uptime < 0 {
		t.Errorf("Uptime = %v", s.Uptime)
	}
}

func TestMetricsEmpty(t *testing.T) {
	s := NewMetrics().Snapshot()
	if s.AvgExecTime != 0 || s.MaxExecTime != 0 {
		t.Errorf("empty Snapshot() = %+v", s)
	}
}
