package core

import "time"

// Step identifies the wizard state. Steps only move forward; there is no
// back-navigation in the sequential flow.
type Step string

const (
	StepToken   Step = "token"
	StepUser    Step = "user"
	StepSession Step = "session"
	StepWidget  Step = "widget"
)

// ArtifactField names one of the three copyable session artifact values.
type ArtifactField string

const (
	FieldUserID       ArtifactField = "userId"
	FieldAccessToken  ArtifactField = "accessToken"
	FieldSessionToken ArtifactField = "sessionToken"
)

// Value returns the artifact value for this field.
func (f ArtifactField) Value(a SessionArtifacts) string {
	switch f {
	case FieldUserID:
		return a.UserID
	case FieldAccessToken:
		return a.AccessToken
	case FieldSessionToken:
		return a.SessionToken
	}
	return ""
}

// View is the render decision derived from a run's state.
type View string

const (
	ViewTokenForm     View = "token_form"
	ViewDirectConnect View = "direct_connect_form"
	ViewUserForm      View = "user_form"
	ViewSessionInfo   View = "session_info"
	ViewWidget        View = "widget"
	ViewManualEntry   View = "manual_entry"
)

// Run is one wizard instance: cross-step state, validation state, and the
// render inputs. Runs are mutated only by the wizard service, which guards
// them with the run lock; Run itself is a plain data type like the payloads
// around it.
type Run struct {
	ID string `json:"id"`

	Step          Step `json:"step"`
	DirectConnect bool `json:"directConnect"`

	Credentials Credentials      `json:"-"`
	UserDraft   UserDraft        `json:"-"`
	Artifacts   SessionArtifacts `json:"artifacts"`

	ActiveWidget    WidgetKind      `json:"activeWidget"`
	WidgetErrorCode WidgetErrorCode `json:"widgetErrorCode,omitempty"`

	FieldErrors FieldErrors `json:"fieldErrors,omitempty"`
	RunError    string      `json:"runError,omitempty"`

	// Loading serializes step submissions: while true, the run rejects a
	// second submission of any step.
	Loading bool `json:"loading"`

	// Copied tracks the transient per-field "copied" indicators.
	Copied map[ArtifactField]bool `json:"copied,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewRun returns a fresh run in the token step with the default widget
// selected.
func NewRun(id string, maxAge time.Duration) *Run {
	now := time.Now()
	return &Run{
		ID:           id,
		Step:         StepToken,
		ActiveWidget: WidgetCategorization,
		FieldErrors:  FieldErrors{},
		Copied:       map[ArtifactField]bool{},
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(maxAge),
	}
}

// Clone returns a deep copy: the error and indicator maps are copied, so
// the clone shares no mutable state with the receiver.
func (r *Run) Clone() *Run {
	clone := *r
	clone.FieldErrors = make(FieldErrors, len(r.FieldErrors))
	for field, message := range r.FieldErrors {
		clone.FieldErrors[field] = message
	}
	clone.Copied = make(map[ArtifactField]bool, len(r.Copied))
	for field, on := range r.Copied {
		clone.Copied[field] = on
	}
	return &clone
}

// Expired reports whether the run passed its expiry.
func (r *Run) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Reset is cancel-to-restart: it clears the credential pair, all errors and
// direct-connect mode, returning the run to a clean token step. Artifacts
// survive a reset only if the run already reached the widget step.
func (r *Run) Reset() {
	r.Credentials = Credentials{}
	r.DirectConnect = false
	r.FieldErrors = FieldErrors{}
	r.RunError = ""
	r.WidgetErrorCode = WidgetErrNone
	if r.Step != StepWidget {
		r.Step = StepToken
		r.Artifacts = SessionArtifacts{}
	}
}

// View derives what renders for the current state. In the widget step a
// no-categorized-transactions widget error switches to the manual entry
// form; everything else renders the active widget.
func (r *Run) View() View {
	switch r.Step {
	case StepToken:
		if r.DirectConnect {
			return ViewDirectConnect
		}
		return ViewTokenForm
	case StepUser:
		return ViewUserForm
	case StepSession:
		return ViewSessionInfo
	case StepWidget:
		if r.WidgetErrorCode == WidgetErrNoCategorizedTransactions {
			return ViewManualEntry
		}
		return ViewWidget
	}
	return ViewTokenForm
}
