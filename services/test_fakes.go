package services

import (
	"context"
	"sync"
	"time"

	"github.com/musetax/checkboost-onboard/core"
)

// FakeAPIClient is a test-only fake implementing core.APIClient. It records
// calls and exposes result/error fields for behavior injection.
type FakeAPIClient struct {
	mu sync.Mutex

	TokenCalls int
	TokenCreds core.Credentials
	TokenResp  *core.AccessTokenResponse
	TokenErr   error

	CreateUserCalls int
	CreateUserDraft core.UserDraft
	CreateUserToken string
	CreateUserResp  *core.CreateUserResponse
	CreateUserErr   error

	SessionCalls   int
	SessionUserID  string
	SessionDomains []string
	SessionResp    *core.WidgetSessionResponse
	SessionErr     error

	SubmitCalls int
	SubmitBatch core.TransactionBatch
	SubmitResp  map[string]any
	SubmitErr   error
}

var _ core.APIClient = (*FakeAPIClient)(nil)

func NewFakeAPIClient() *FakeAPIClient {
	return &FakeAPIClient{
		TokenResp:      &core.AccessTokenResponse{AccessToken: "T1", ExpiresIn: 3600, TokenType: "bearer"},
		CreateUserResp: &core.CreateUserResponse{UserID: "U1"},
		SessionResp:    &core.WidgetSessionResponse{SessionToken: "S1"},
		SubmitResp:     map[string]any{"status": "ok"},
	}
}

func (f *FakeAPIClient) ObtainAccessToken(ctx context.Context, creds core.Credentials) (*core.AccessTokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TokenCalls++
	f.TokenCreds = creds
	if f.TokenErr != nil {
		return nil, f.TokenErr
	}
	return f.TokenResp, nil
}

func (f *FakeAPIClient) CreateUser(ctx context.Context, draft core.UserDraft, accessToken string) (*core.CreateUserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateUserCalls++
	f.CreateUserDraft = draft
	f.CreateUserToken = accessToken
	if f.CreateUserErr != nil {
		return nil, f.CreateUserErr
	}
	return f.CreateUserResp, nil
}

func (f *FakeAPIClient) CreateWidgetSession(ctx context.Context, userID string, domainURLs []string, accessToken string) (*core.WidgetSessionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SessionCalls++
	f.SessionUserID = userID
	f.SessionDomains = domainURLs
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	return f.SessionResp, nil
}

func (f *FakeAPIClient) SubmitTransactions(ctx context.Context, batch core.TransactionBatch) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SubmitCalls++
	f.SubmitBatch = batch
	if f.SubmitErr != nil {
		return nil, f.SubmitErr
	}
	return f.SubmitResp, nil
}

// TotalCalls counts every remote call made, across all operations.
func (f *FakeAPIClient) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.TokenCalls + f.CreateUserCalls + f.SessionCalls + f.SubmitCalls
}

// FakeClipboard records written text and can inject a write failure.
type FakeClipboard struct {
	Written  []string
	WriteErr error
}

func (f *FakeClipboard) WriteText(text string) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.Written = append(f.Written, text)
	return nil
}

// FakeNotifier records notifications in order.
type FakeNotifier struct {
	Successes []string
	Errors    []string
}

func (f *FakeNotifier) Success(message string) { f.Successes = append(f.Successes, message) }
func (f *FakeNotifier) Error(message string)   { f.Errors = append(f.Errors, message) }

// fakeScheduler captures scheduled callbacks so tests can fire them
// deterministically instead of sleeping.
type fakeScheduler struct {
	delays []time.Duration
	fns    []func()
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.fns = append(s.fns, fn)
}

// Fire runs the i-th scheduled callback.
func (s *fakeScheduler) Fire(i int) {
	if i >= 0 && i < len(s.fns) {
		s.fns[i]()
	}
}
