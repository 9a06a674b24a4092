package onboard

import (
	"context"
	"errors"
	"testing"
)

type stubAPIClient struct{}

func (stubAPIClient) ObtainAccessToken(context.Context, Credentials) (*AccessTokenResponse, error) {
	return &AccessTokenResponse{AccessToken: "T1"}, nil
}

func (stubAPIClient) CreateUser(context.Context, UserDraft, string) (*CreateUserResponse, error) {
	return &CreateUserResponse{UserID: "U1"}, nil
}

func (stubAPIClient) CreateWidgetSession(context.Context, string, []string, string) (*WidgetSessionResponse, error) {
	return &WidgetSessionResponse{SessionToken: "S1"}, nil
}

func (stubAPIClient) SubmitTransactions(context.Context, TransactionBatch) (map[string]any, error) {
	return map[string]any{}, nil
}

type recordingHTTPAdapter struct {
	wizard   WizardProvider
	basePath string
	err      error
}

func (a *recordingHTTPAdapter) RegisterRoutes(wizard WizardProvider, basePath string) error {
	a.wizard = wizard
	a.basePath = basePath
	return a.err
}

// Requirement: the api client is the only required dependency
func TestNew_RequiresAPIClient(t *testing.T) {
	_, err := New(Config{})
	if !errors.Is(err, ErrAPIClientRequired) {
		t.Fatalf("New() error = %v, want ErrAPIClientRequired", err)
	}
}

// Requirement: defaults make a minimal config usable end to end
func TestNew_Defaults(t *testing.T) {
	ob, err := New(Config{API: stubAPIClient{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ob.BasePath != "/onboard" {
		t.Errorf("BasePath = %q, want /onboard", ob.BasePath)
	}
	if ob.Storage == nil {
		t.Fatal("Storage should default to the in-memory cache")
	}

	run, err := ob.Wizard.StartRun()
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	got, err := ob.Storage.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("GetRun() id = %q, want %q", got.ID, run.ID)
	}
}

// Requirement: an http adapter is registered against the configured base path
func TestNew_RegistersRoutes(t *testing.T) {
	adapter := &recordingHTTPAdapter{}
	ob, err := New(Config{
		API:      stubAPIClient{},
		HTTP:     adapter,
		BasePath: "/api/onboard",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if adapter.basePath != "/api/onboard" {
		t.Errorf("basePath = %q, want /api/onboard", adapter.basePath)
	}
	if adapter.wizard != ob.Wizard {
		t.Error("adapter should receive the assembled wizard")
	}
}

// Requirement: a failing route registration fails construction
func TestNew_RegisterRoutesFailure(t *testing.T) {
	adapter := &recordingHTTPAdapter{err: errors.New("route clash")}
	if _, err := New(Config{API: stubAPIClient{}, HTTP: adapter}); err == nil {
		t.Fatal("New() should surface the registration error")
	}
}
