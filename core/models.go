package core

import "time"

// Credentials is the client id/secret pair exchanged for an access token.
//
// User-supplied and transient: a cancel-to-restart clears it.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// UserDraft is the user-creation form input. It is validated before
// submission and not kept once the user exists remotely.
type UserDraft struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PlaidUserID string `json:"plaid_user_id"`
}

// SessionArtifacts are the three values accumulated across the wizard steps.
// Each is write-once per run: only the step that produces it sets it.
type SessionArtifacts struct {
	AccessToken  string `json:"access_token"`
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token"`
}

// Complete reports whether all three artifacts are present. The widget step
// is only reachable when this holds.
func (a SessionArtifacts) Complete() bool {
	return a.AccessToken != "" && a.UserID != "" && a.SessionToken != ""
}

// ManualConnectInput populates SessionArtifacts directly, bypassing the
// token/user/session steps. Entered only via the direct-connect toggle.
type ManualConnectInput struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"access_token"`
	SessionToken string `json:"session_token"`
}

// FinanceCategory is the two-level personal finance category.
type FinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

// TransactionDraft is one manually entered transaction. Amount stays a string
// while editing so keystroke filtering can run; it is parsed on submit.
type TransactionDraft struct {
	AccountID       string          `json:"account_id"`
	Amount          string          `json:"amount"`
	ISOCurrencyCode string          `json:"iso_currency_code"`
	Datetime        string          `json:"datetime"`
	Date            string          `json:"date"`
	Name            string          `json:"name"`
	MerchantName    string          `json:"merchant_name"`
	PaymentChannel  string          `json:"payment_channel"`
	TransactionID   string          `json:"transaction_id"`
	TransactionType string          `json:"transaction_type"`
	Category        FinanceCategory `json:"personal_finance_category"`
}

// NewTransactionDraft returns a default-valued draft: USD, both timestamps
// set to now, everything else empty.
func NewTransactionDraft() TransactionDraft {
	now := time.Now().UTC().Format(time.RFC3339)
	return TransactionDraft{
		ISOCurrencyCode: "USD",
		Datetime:        now,
		Date:            now,
	}
}

// AccessTokenResponse is the token endpoint payload.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// CreateUserResponse is the user-creation payload. The API returns more
// fields than we model; Extra keeps them without forcing a schema.
type CreateUserResponse struct {
	UserID  string         `json:"user_id"`
	Message string         `json:"message,omitempty"`
	Extra   map[string]any `json:"-"`
}

// WidgetSessionResponse is the widget session endpoint payload. Exactly one
// of SessionToken or Detail is expected to be set.
type WidgetSessionResponse struct {
	SessionToken string `json:"widget_session_token"`
	Detail       string `json:"detail,omitempty"`
}

// TransactionBatch is the body submitted to the transactions endpoint.
type TransactionBatch struct {
	UserID       string             `json:"user_id"`
	Transactions []TransactionDraft `json:"transactions"`
}
