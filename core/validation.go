package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	amountPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d*)$`)
)

const (
	minUsernameLen    = 3
	minPlaidUserIDLen = 5
)

// FieldErrors maps a field name, optionally suffixed with a batch index as
// "field-index", to a human-readable message.
type FieldErrors map[string]string

// Has reports whether any error is recorded.
func (fe FieldErrors) Has() bool { return len(fe) > 0 }

// Clear removes the error for one field, typically on edit.
func (fe FieldErrors) Clear(field string) { delete(fe, field) }

// IndexedKey builds the "field-index" key used for batch entries.
func IndexedKey(field string, index int) string {
	return fmt.Sprintf("%s-%d", field, index)
}

// ValidateCredentials checks the token step guard: both fields non-empty
// after trimming.
func ValidateCredentials(c Credentials) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(c.ClientID) == "" {
		errs["client_id"] = "Client ID is required."
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		errs["client_secret"] = "Client Secret is required."
	}
	return errs
}

// ValidateUserDraft checks the user step guard: username length, email
// shape, plaid user id length.
func ValidateUserDraft(d UserDraft) FieldErrors {
	errs := FieldErrors{}

	username := strings.TrimSpace(d.Username)
	if username == "" {
		errs["username"] = "Username is required."
	} else if len(username) < minUsernameLen {
		errs["username"] = fmt.Sprintf("Username must be at least %d characters.", minUsernameLen)
	}

	email := strings.TrimSpace(d.Email)
	if email == "" {
		errs["email"] = "Email is required."
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "Email is not valid."
	}

	plaidID := strings.TrimSpace(d.PlaidUserID)
	if plaidID == "" {
		errs["plaid_user_id"] = "Plaid User ID is required."
	} else if len(plaidID) < minPlaidUserIDLen {
		errs["plaid_user_id"] = fmt.Sprintf("Plaid User ID must be at least %d characters.", minPlaidUserIDLen)
	}

	return errs
}

// ValidateManualConnect checks the direct-connect guard: all three artifact
// fields non-empty after trimming.
func ValidateManualConnect(in ManualConnectInput) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.UserID) == "" {
		errs["userId"] = "User ID is required."
	}
	if strings.TrimSpace(in.AccessToken) == "" {
		errs["access_token"] = "Access Token is required."
	}
	if strings.TrimSpace(in.SessionToken) == "" {
		errs["session_token"] = "Session Token is required."
	}
	return errs
}

// AcceptAmountInput implements the numeric-only amount filter. It returns
// the value the field should hold after a keystroke produced next: an empty
// string clears the field, a value matching the amount pattern replaces it,
// and anything else is silently not applied (prev is kept).
func AcceptAmountInput(prev, next string) string {
	if next == "" {
		return ""
	}
	if amountPattern.MatchString(next) {
		return next
	}
	return prev
}

// ParseAmount parses a submitted amount, requiring a strictly positive
// number.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than 0")
	}
	return d, nil
}

// requiredDraftFields lists the transaction draft string fields validated on
// submit, in the order the form renders them.
var requiredDraftFields = []struct {
	key     string
	value   func(TransactionDraft) string
	message string
}{
	{"name", func(t TransactionDraft) string { return t.Name }, "Transaction name is required."},
	{"merchant_name", func(t TransactionDraft) string { return t.MerchantName }, "Merchant name is required."},
	{"account_id", func(t TransactionDraft) string { return t.AccountID }, "Account ID is required."},
	{"transaction_id", func(t TransactionDraft) string { return t.TransactionID }, "Transaction ID is required."},
	{"payment_channel", func(t TransactionDraft) string { return t.PaymentChannel }, "Payment channel is required."},
	{"transaction_type", func(t TransactionDraft) string { return t.TransactionType }, "Transaction type is required."},
	{"primary", func(t TransactionDraft) string { return t.Category.Primary }, "Primary category is required."},
	{"detailed", func(t TransactionDraft) string { return t.Category.Detailed }, "Detailed category is required."},
}

// ValidateDrafts checks every draft in a batch. Failing fields are keyed
// "field-index" so errors stay unique across drafts.
func ValidateDrafts(drafts []TransactionDraft) FieldErrors {
	errs := FieldErrors{}
	for i, draft := range drafts {
		for _, f := range requiredDraftFields {
			if strings.TrimSpace(f.value(draft)) == "" {
				errs[IndexedKey(f.key, i)] = f.message
			}
		}
		if _, err := ParseAmount(draft.Amount); err != nil {
			errs[IndexedKey("amount", i)] = "Amount must be greater than 0."
		}
	}
	return errs
}
