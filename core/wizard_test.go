package core

import (
	"testing"
	"time"
)

// Requirement: the render decision follows the step, the direct-connect
// flag, and the structured widget error code.
func TestRunView(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Run)
		want   View
	}{
		{
			name:   "token step renders the token form",
			mutate: func(r *Run) {},
			want:   ViewTokenForm,
		},
		{
			name:   "direct-connect replaces the token form",
			mutate: func(r *Run) { r.DirectConnect = true },
			want:   ViewDirectConnect,
		},
		{
			name:   "user step renders the user form",
			mutate: func(r *Run) { r.Step = StepUser },
			want:   ViewUserForm,
		},
		{
			name:   "session step renders the artifact info",
			mutate: func(r *Run) { r.Step = StepSession },
			want:   ViewSessionInfo,
		},
		{
			name:   "widget step renders the active widget",
			mutate: func(r *Run) { r.Step = StepWidget },
			want:   ViewWidget,
		},
		{
			name: "no-categorized error switches to manual entry",
			mutate: func(r *Run) {
				r.Step = StepWidget
				r.WidgetErrorCode = WidgetErrNoCategorizedTransactions
			},
			want: ViewManualEntry,
		},
		{
			name: "other widget errors keep the widget view",
			mutate: func(r *Run) {
				r.Step = StepWidget
				r.WidgetErrorCode = WidgetErrGeneric
			},
			want: ViewWidget,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			run := NewRun("run-1", time.Hour)
			test.mutate(run)
			if got := run.View(); got != test.want {
				t.Errorf("View() = %q, want %q", got, test.want)
			}
		})
	}
}

// Requirement: cancel-to-restart clears the credential pair, errors and
// direct-connect mode; before the widget step it also clears artifacts.
func TestRunReset(t *testing.T) {
	run := NewRun("run-1", time.Hour)
	run.DirectConnect = true
	run.Credentials = Credentials{ClientID: "id", ClientSecret: "secret"}
	run.FieldErrors = FieldErrors{"client_id": "Client ID is required."}
	run.RunError = "boom"
	run.Artifacts.AccessToken = "T1"

	run.Reset()

	if run.DirectConnect {
		t.Error("Reset() should clear direct-connect mode")
	}
	if run.Credentials != (Credentials{}) {
		t.Error("Reset() should clear the credential pair")
	}
	if run.FieldErrors.Has() || run.RunError != "" {
		t.Error("Reset() should clear errors")
	}
	if run.Artifacts != (SessionArtifacts{}) {
		t.Error("Reset() before the widget step should clear artifacts")
	}
	if run.Step != StepToken {
		t.Errorf("Reset() step = %q, want %q", run.Step, StepToken)
	}
}

// Requirement: resetting a run that reached the widget step keeps the
// accumulated artifacts; switching widgets never resets them either.
func TestRunResetKeepsArtifactsAtWidget(t *testing.T) {
	run := NewRun("run-1", time.Hour)
	run.Step = StepWidget
	run.Artifacts = SessionArtifacts{AccessToken: "T1", UserID: "U1", SessionToken: "S1"}

	run.Reset()

	if !run.Artifacts.Complete() {
		t.Error("Reset() at the widget step should keep artifacts")
	}
	if run.Step != StepWidget {
		t.Errorf("Reset() step = %q, want %q", run.Step, StepWidget)
	}
}

// Requirement: artifacts are complete only when all three values are set.
func TestSessionArtifactsComplete(t *testing.T) {
	tests := []struct {
		name      string
		artifacts SessionArtifacts
		want      bool
	}{
		{"all present", SessionArtifacts{AccessToken: "T", UserID: "U", SessionToken: "S"}, true},
		{"missing token", SessionArtifacts{UserID: "U", SessionToken: "S"}, false},
		{"missing user", SessionArtifacts{AccessToken: "T", SessionToken: "S"}, false},
		{"missing session", SessionArtifacts{AccessToken: "T", UserID: "U"}, false},
		{"empty", SessionArtifacts{}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.artifacts.Complete(); got != test.want {
				t.Errorf("Complete() = %v, want %v", got, test.want)
			}
		})
	}
}

// Requirement: widget error strings are classified into structured codes at
// the boundary; only the known sentinel maps to the manual-entry code.
func TestClassifyWidgetError(t *testing.T) {
	tests := []struct {
		message string
		want    WidgetErrorCode
	}{
		{"", WidgetErrNone},
		{"No categorized transactions found", WidgetErrNoCategorizedTransactions},
		{"session expired", WidgetErrGeneric},
		{"no categorized transactions found", WidgetErrGeneric},
	}

	for _, test := range tests {
		if got := ClassifyWidgetError(test.message); got != test.want {
			t.Errorf("ClassifyWidgetError(%q) = %q, want %q", test.message, got, test.want)
		}
	}
}
