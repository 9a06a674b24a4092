package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// REMOTE API PORT (musetax REST service)
// ============================================

// APIClient wraps the four remote calls. Implementations return structured
// errors (*APIError) and perform no user-facing notification; that belongs
// to the wizard service.
type APIClient interface {
	// ObtainAccessToken exchanges a credential pair for an access token.
	// Unauthenticated; fails with an auth-kind error on bad credentials.
	ObtainAccessToken(ctx context.Context, creds Credentials) (*AccessTokenResponse, error)

	// CreateUser creates a user, bearer-authenticated.
	CreateUser(ctx context.Context, draft UserDraft, accessToken string) (*CreateUserResponse, error)

	// CreateWidgetSession exchanges a user id for a widget session token.
	// A 2xx body without the token is a not-found-kind error.
	CreateWidgetSession(ctx context.Context, userID string, domainURLs []string, accessToken string) (*WidgetSessionResponse, error)

	// SubmitTransactions submits one batch. The payload is opaque.
	SubmitTransactions(ctx context.Context, batch TransactionBatch) (map[string]any, error)
}

// ============================================
// STORAGE PORT (run persistence)
// ============================================

// RunStorage defines run-related storage operations. The in-memory cache is
// the default; the pgx adapter implements the same port for deployments
// that share runs across instances.
type RunStorage interface {
	CreateRun(run *Run) error
	GetRun(id string) (*Run, error)
	UpdateRun(run *Run) error
	DeleteRun(id string) error
	DeleteExpiredRuns() (int, error)
}

// ============================================
// WIZARD PORT (consumed by HTTP adapters)
// ============================================

// WizardProvider is the operation surface HTTP adapters are written
// against. *services.WizardService is the concrete implementation.
type WizardProvider interface {
	StartRun() (*Run, error)
	GetRun(id string) (*Run, error)
	SubmitToken(ctx context.Context, runID string, creds Credentials) (*Run, error)
	SubmitUser(ctx context.Context, runID string, draft UserDraft) (*Run, error)
	SubmitSession(runID string) (*Run, error)
	ToggleDirectConnect(runID string, enabled bool) (*Run, error)
	SubmitDirectConnect(runID string, input ManualConnectInput) (*Run, error)
	SelectWidget(runID string, kind WidgetKind) (*Run, error)
	ReportWidgetError(runID, message string) (*Run, error)
	ClearWidgetError(runID string) (*Run, error)
	SubmitTransactions(ctx context.Context, runID string, drafts []TransactionDraft) (*Run, error)
	CopyArtifact(runID string, field ArtifactField) (*Run, error)
	Cancel(runID string) (*Run, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(wizard WizardProvider, basePath string) error
}

// ============================================
// CAPABILITY PORTS (injected browser-ish ambient)
// ============================================

// Clipboard is the injected clipboard capability.
type Clipboard interface {
	WriteText(text string) error
}

// NopClipboard accepts every write without doing anything. HTTP deployments
// use it: the browser performs the actual copy and the wizard only tracks
// the indicator state.
type NopClipboard struct{}

func (NopClipboard) WriteText(string) error { return nil }

// OriginProvider supplies the origin registered as a widget session
// domain URL.
type OriginProvider interface {
	Origin() string
}

// StaticOrigin is the trivial OriginProvider for a fixed deployment origin.
type StaticOrigin string

func (o StaticOrigin) Origin() string { return string(o) }

// ============================================
// NOTIFICATION PORT
// ============================================

// Notifier receives the toast-style notifications the wizard emits. The
// HTTP client layer never calls this; only the services do.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// ============================================
// TIMING
// ============================================

// ScheduleFunc runs fn after d. Injected so the 2-second copied-indicator
// window is testable without sleeping.
type ScheduleFunc func(d time.Duration, fn func())

// ScheduleAfterFunc is the production ScheduleFunc backed by time.AfterFunc.
func ScheduleAfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
