package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/musetax/checkboost-onboard/core"
	"github.com/musetax/checkboost-onboard/pkg/runid"
)

// WizardConfig tunes the wizard service.
type WizardConfig struct {
	// RunMaxAge bounds how long an abandoned run stays resumable.
	RunMaxAge time.Duration
	// CopiedIndicatorTTL is how long a per-field "copied" indicator shows.
	CopiedIndicatorTTL time.Duration
}

// DefaultWizardConfig returns the production defaults.
func DefaultWizardConfig() WizardConfig {
	return WizardConfig{
		RunMaxAge:          30 * time.Minute,
		CopiedIndicatorTTL: 2 * time.Second,
	}
}

// WizardService drives onboarding runs through the
// token → user → session → widget flow. It owns all run mutation: guards,
// validation, remote calls, artifact accumulation and user notification.
type WizardService struct {
	config    WizardConfig
	api       core.APIClient
	storage   core.RunStorage
	sessions  *SessionProvisioner
	clipboard core.Clipboard
	notifier  core.Notifier
	schedule  core.ScheduleFunc
	log       zerolog.Logger

	// mu serializes every load-mutate-persist cycle on a run, so two
	// requests cannot both claim an idle run and concurrent mutators
	// (widget switches, copy indicators, timer clears) cannot lose each
	// other's writes. Remote calls run outside the lock.
	mu sync.Mutex
}

var _ core.WizardProvider = (*WizardService)(nil)

func NewWizardService(
	config WizardConfig,
	api core.APIClient,
	storage core.RunStorage,
	sessions *SessionProvisioner,
	clipboard core.Clipboard,
	notifier core.Notifier,
	schedule core.ScheduleFunc,
	log zerolog.Logger,
) *WizardService {
	if config.RunMaxAge == 0 {
		config.RunMaxAge = DefaultWizardConfig().RunMaxAge
	}
	if config.CopiedIndicatorTTL == 0 {
		config.CopiedIndicatorTTL = DefaultWizardConfig().CopiedIndicatorTTL
	}
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	if schedule == nil {
		schedule = core.ScheduleAfterFunc
	}
	return &WizardService{
		config:    config,
		api:       api,
		storage:   storage,
		sessions:  sessions,
		clipboard: clipboard,
		notifier:  notifier,
		schedule:  schedule,
		log:       log,
	}
}

// StartRun creates a fresh run in the token step.
func (s *WizardService) StartRun() (*core.Run, error) {
	id, err := runid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	run := core.NewRun(id, s.config.RunMaxAge)
	if err := s.storage.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	s.log.Info().Str("run_id", run.ID).Msg("onboarding run started")
	return run, nil
}

// GetRun loads a run by ID.
func (s *WizardService) GetRun(id string) (*core.Run, error) {
	return s.storage.GetRun(id)
}

// SubmitToken handles the token step: validate the credential pair,
// exchange it for an access token, advance to the user step.
func (s *WizardService) SubmitToken(ctx context.Context, runID string, creds core.Credentials) (*core.Run, error) {
	run, release, err := s.beginSubmission(runID, core.StepToken)
	if err != nil {
		return run, err
	}
	defer release(run)

	if errs := core.ValidateCredentials(creds); errs.Has() {
		run.FieldErrors = errs
		return run, nil
	}

	run.Credentials = creds
	resp, err := s.api.ObtainAccessToken(ctx, creds)
	if err != nil {
		msg := core.DisplayMessage(err)
		run.RunError = msg
		s.notifier.Error(msg)
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("token exchange failed")
		return run, nil
	}

	run.Artifacts.AccessToken = resp.AccessToken
	run.Step = core.StepUser
	s.notifier.Success("Access token created.")
	return run, nil
}

// SubmitUser handles the user step: validate the draft, create the user,
// then provision the widget session token and advance to the session step.
// A provisioning failure still advances, recorded under the "session" key,
// matching the sequential flow's observable behavior.
func (s *WizardService) SubmitUser(ctx context.Context, runID string, draft core.UserDraft) (*core.Run, error) {
	run, release, err := s.beginSubmission(runID, core.StepUser)
	if err != nil {
		return run, err
	}
	defer release(run)

	if errs := core.ValidateUserDraft(draft); errs.Has() {
		run.FieldErrors = errs
		return run, nil
	}

	run.UserDraft = draft
	resp, err := s.api.CreateUser(ctx, draft, run.Artifacts.AccessToken)
	if err != nil {
		msg := core.DisplayMessage(err)
		run.RunError = msg
		s.notifier.Error(msg)
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("user creation failed")
		return run, nil
	}

	run.Artifacts.UserID = resp.UserID
	if resp.Message != "" {
		s.notifier.Success(resp.Message)
	} else {
		s.notifier.Success("User created.")
	}

	token, err := s.sessions.Provision(ctx, resp.UserID, run.Artifacts.AccessToken)
	if err != nil {
		msg := core.DisplayMessage(err)
		run.FieldErrors["session"] = msg
		run.RunError = msg
		s.notifier.Error(msg)
	} else {
		run.Artifacts.SessionToken = token
		s.notifier.Success("Session token created successfully.")
	}

	run.Step = core.StepSession
	return run, nil
}

// SubmitSession handles the session step, which carries no form input: it
// advances to the widget step once the artifacts are complete.
func (s *WizardService) SubmitSession(runID string) (*core.Run, error) {
	run, release, err := s.beginSubmission(runID, core.StepSession)
	if err != nil {
		return run, err
	}
	defer release(run)

	if !run.Artifacts.Complete() {
		run.RunError = core.ErrArtifactsIncomplete.Error()
		return run, nil
	}

	run.Step = core.StepWidget
	return run, nil
}

// ToggleDirectConnect switches the token step between the sequential form
// and the manual override form. Leaving direct-connect mode is a
// cancel-to-restart: the credential pair and errors are cleared.
func (s *WizardService) ToggleDirectConnect(runID string, enabled bool) (*core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.storage.GetRun(runID)
	if err != nil {
		return nil, err
	}
	if run.Step != core.StepToken {
		return run, core.ErrWrongStep
	}

	if enabled {
		run.DirectConnect = true
	} else {
		run.Reset()
	}
	return run, s.persist(run)
}

// SubmitDirectConnect handles the manual override form: all three artifact
// values provided by hand, jumping straight to the widget step with no
// network call.
func (s *WizardService) SubmitDirectConnect(runID string, input core.ManualConnectInput) (*core.Run, error) {
	run, release, err := s.beginSubmission(runID, core.StepToken)
	if err != nil {
		return run, err
	}
	defer release(run)

	if !run.DirectConnect {
		return run, core.ErrWrongStep
	}

	if errs := core.ValidateManualConnect(input); errs.Has() {
		run.FieldErrors = errs
		return run, nil
	}

	run.Artifacts = core.SessionArtifacts{
		UserID:       strings.TrimSpace(input.UserID),
		AccessToken:  strings.TrimSpace(input.AccessToken),
		SessionToken: strings.TrimSpace(input.SessionToken),
	}
	run.Step = core.StepWidget
	return run, nil
}

// SelectWidget switches the active widget without touching the artifacts.
func (s *WizardService) SelectWidget(runID string, kind core.WidgetKind) (*core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.storage.GetRun(runID)
	if err != nil {
		return nil, err
	}
	if run.Step != core.StepWidget {
		return run, core.ErrWrongStep
	}
	if !kind.Valid() {
		return run, fmt.Errorf("%w %q", core.ErrUnknownWidget, kind)
	}

	run.ActiveWidget = kind
	return run, s.persist(run)
}

// ReportWidgetError records an error reported by the embedded widget,
// classified into a structured code at this boundary.
func (s *WizardService) ReportWidgetError(runID, message string) (*core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.storage.GetRun(runID)
	if err != nil {
		return nil, err
	}

	run.WidgetErrorCode = core.ClassifyWidgetError(message)
	run.RunError = message
	return run, s.persist(run)
}

// ClearWidgetError resets the widget error branch, used when manual
// transaction entry succeeds and the widget view should return.
func (s *WizardService) ClearWidgetError(runID string) (*core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.storage.GetRun(runID)
	if err != nil {
		return nil, err
	}

	run.WidgetErrorCode = core.WidgetErrNone
	run.RunError = ""
	return run, s.persist(run)
}

// SubmitTransactions submits a manual transaction batch for a run sitting
// in the widget error branch. A successful submission clears the error
// branch so the widget view returns.
func (s *WizardService) SubmitTransactions(ctx context.Context, runID string, drafts []core.TransactionDraft) (*core.Run, error) {
	run, release, err := s.beginSubmission(runID, core.StepWidget)
	if err != nil {
		return run, err
	}
	defer release(run)

	if run.View() != core.ViewManualEntry {
		return run, core.ErrWrongStep
	}
	if len(drafts) == 0 {
		return run, core.ErrEmptyBatch
	}

	if errs := core.ValidateDrafts(drafts); errs.Has() {
		run.FieldErrors = errs
		return run, nil
	}

	batch := core.TransactionBatch{
		UserID:       run.Artifacts.UserID,
		Transactions: drafts,
	}
	if _, err := s.api.SubmitTransactions(ctx, batch); err != nil {
		msg := core.DisplayMessage(err)
		run.RunError = msg
		s.notifier.Error(msg)
		s.log.Error().Err(err).Str("run_id", run.ID).Int("count", len(drafts)).Msg("transaction submission failed")
		return run, nil
	}

	run.WidgetErrorCode = core.WidgetErrNone
	run.RunError = ""
	s.notifier.Success("Transaction created successfully.")
	return run, nil
}

// Cancel is cancel-to-restart for the current run.
func (s *WizardService) Cancel(runID string) (*core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.storage.GetRun(runID)
	if err != nil {
		return nil, err
	}

	run.Reset()
	return run, s.persist(run)
}

// CopyArtifact copies one artifact value to the clipboard and shows the
// per-field "copied" indicator for the configured window. Indicators for
// other fields are unaffected.
func (s *WizardService) CopyArtifact(runID string, field core.ArtifactField) (*core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.storage.GetRun(runID)
	if err != nil {
		return nil, err
	}
	if run.Step != core.StepSession {
		return run, core.ErrWrongStep
	}

	value := field.Value(run.Artifacts)
	if err := s.clipboard.WriteText(value); err != nil {
		s.notifier.Error("Failed to copy")
		s.log.Error().Err(err).Str("run_id", run.ID).Str("field", string(field)).Msg("clipboard write failed")
		return run, fmt.Errorf("%w: %v", core.ErrCopyFailed, err)
	}

	run.Copied[field] = true
	if err := s.persist(run); err != nil {
		return run, err
	}
	s.notifier.Success("Copied!")

	s.schedule(s.config.CopiedIndicatorTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		current, err := s.storage.GetRun(runID)
		if err != nil {
			return
		}
		delete(current.Copied, field)
		_ = s.persist(current)
	})

	return run, nil
}

// CleanupExpiredRuns evicts expired runs from storage.
func (s *WizardService) CleanupExpiredRuns() (int, error) {
	return s.storage.DeleteExpiredRuns()
}

// beginSubmission loads a run, checks the step guard and claims the
// in-flight flag. The returned release func clears the flag and persists
// whatever the submission did to the run; callers defer it so the flag is
// cleared on success, validation failure and network failure alike.
func (s *WizardService) beginSubmission(runID string, step core.Step) (*core.Run, func(*core.Run), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.storage.GetRun(runID)
	if err != nil {
		return nil, nil, err
	}
	if run.Step != step {
		return run, nil, core.ErrWrongStep
	}
	if run.Loading {
		return run, nil, core.ErrRunBusy
	}

	run.Loading = true
	run.FieldErrors = core.FieldErrors{}
	run.RunError = ""
	if err := s.persist(run); err != nil {
		return nil, nil, err
	}

	release := func(r *core.Run) {
		s.mu.Lock()
		defer s.mu.Unlock()

		r.Loading = false
		if err := s.persist(r); err != nil {
			s.log.Error().Err(err).Str("run_id", r.ID).Msg("failed to persist run")
		}
	}
	return run, release, nil
}

func (s *WizardService) persist(run *core.Run) error {
	run.UpdatedAt = time.Now()
	return s.storage.UpdateRun(run)
}
