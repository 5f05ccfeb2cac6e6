package audit

import (
	"testing"

	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

func TestSweeper_Sweep(t *testing.T) {
	l, _ := openTestLog(t, Options{})
	if _, err := l.Append(testDecision(policy.ActionApproved, "ok"), facts.Map{}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var got *Diagnostic
	s := NewSweeper(l, "", func(d Diagnostic) { got = &d })
	diag := s.Sweep()
	if !diag.OK {
		t.Errorf("Sweep() = %+v, want OK", diag)
	}
	if got == nil || !got.OK {
		t.Errorf("callback diagnostic = %+v, want OK", got)
	}
}

func TestSweeper_StartValidation(t *testing.T) {
	l, _ := openTestLog(t, Options{})

	s := NewSweeper(l, "not a schedule", nil)
	if err := s.Start(); err == nil {
		t.Error("Start accepted an invalid cron schedule")
	}

	// Empty schedule disables the sweeper without error.
	disabled := NewSweeper(l, "", nil)
	if err := disabled.Start(); err != nil {
		t.Errorf("Start with empty schedule: %v", err)
	}
	disabled.Stop()

	valid := NewSweeper(l, "@hourly", nil)
	if err := valid.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := valid.Start(); err == nil {
		t.Error("second Start did not fail")
	}
	valid.Stop()
}
