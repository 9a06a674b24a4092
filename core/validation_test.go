package core

import (
	"testing"
)

// Requirement: submitting the token step with an empty client_id or
// client_secret produces a validation error for that field.
func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		creds    Credentials
		wantKeys []string
	}{
		{
			name:  "accepts both fields present",
			creds: Credentials{ClientID: "id", ClientSecret: "secret"},
		},
		{
			name:     "rejects empty client_id",
			creds:    Credentials{ClientSecret: "secret"},
			wantKeys: []string{"client_id"},
		},
		{
			name:     "rejects empty client_secret",
			creds:    Credentials{ClientID: "id"},
			wantKeys: []string{"client_secret"},
		},
		{
			name:     "rejects whitespace-only values",
			creds:    Credentials{ClientID: "   ", ClientSecret: "\t"},
			wantKeys: []string{"client_id", "client_secret"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			errs := ValidateCredentials(test.creds)
			assertFieldErrors(t, errs, test.wantKeys)
		})
	}
}

// Requirement: username shorter than 3 characters, a malformed email, and
// plaid_user_id shorter than 5 characters each independently block the user
// step.
func TestValidateUserDraft(t *testing.T) {
	valid := UserDraft{Username: "alice", Email: "alice@example.com", PlaidUserID: "plaid-1"}

	tests := []struct {
		name     string
		mutate   func(*UserDraft)
		wantKeys []string
	}{
		{
			name:   "accepts a valid draft",
			mutate: func(d *UserDraft) {},
		},
		{
			name:     "rejects short username",
			mutate:   func(d *UserDraft) { d.Username = "al" },
			wantKeys: []string{"username"},
		},
		{
			name:     "rejects empty username",
			mutate:   func(d *UserDraft) { d.Username = "" },
			wantKeys: []string{"username"},
		},
		{
			name:     "rejects email without at sign",
			mutate:   func(d *UserDraft) { d.Email = "alice.example.com" },
			wantKeys: []string{"email"},
		},
		{
			name:     "rejects email without domain dot",
			mutate:   func(d *UserDraft) { d.Email = "alice@example" },
			wantKeys: []string{"email"},
		},
		{
			name:     "rejects email with spaces",
			mutate:   func(d *UserDraft) { d.Email = "al ice@example.com" },
			wantKeys: []string{"email"},
		},
		{
			name:     "rejects short plaid user id",
			mutate:   func(d *UserDraft) { d.PlaidUserID = "p123" },
			wantKeys: []string{"plaid_user_id"},
		},
		{
			name: "reports all failures at once",
			mutate: func(d *UserDraft) {
				d.Username = "x"
				d.Email = "bad"
				d.PlaidUserID = "p"
			},
			wantKeys: []string{"username", "email", "plaid_user_id"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			draft := valid
			test.mutate(&draft)
			errs := ValidateUserDraft(draft)
			assertFieldErrors(t, errs, test.wantKeys)
		})
	}
}

// Requirement: the direct-connect form requires all three artifact fields.
func TestValidateManualConnect(t *testing.T) {
	tests := []struct {
		name     string
		input    ManualConnectInput
		wantKeys []string
	}{
		{
			name:  "accepts all fields present",
			input: ManualConnectInput{UserID: "U2", AccessToken: "T2", SessionToken: "S2"},
		},
		{
			name:     "rejects missing user id",
			input:    ManualConnectInput{AccessToken: "T2", SessionToken: "S2"},
			wantKeys: []string{"userId"},
		},
		{
			name:     "rejects everything missing",
			input:    ManualConnectInput{},
			wantKeys: []string{"userId", "access_token", "session_token"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			errs := ValidateManualConnect(test.input)
			assertFieldErrors(t, errs, test.wantKeys)
		})
	}
}

// Requirement: the amount filter accepts 123, 123.45 and .45 shapes,
// silently keeps the previous value on an invalid keystroke, and clears on
// empty input.
func TestAcceptAmountInput(t *testing.T) {
	tests := []struct {
		name string
		prev string
		next string
		want string
	}{
		{name: "accepts integer", prev: "", next: "123", want: "123"},
		{name: "accepts decimal", prev: "123", next: "123.45", want: "123.45"},
		{name: "accepts leading dot", prev: "", next: ".45", want: ".45"},
		{name: "accepts trailing dot", prev: "12", next: "12.", want: "12."},
		{name: "keeps previous on second dot", prev: "12.5", next: "12.5.3", want: "12.5"},
		{name: "keeps previous on letters", prev: "12", next: "12a", want: "12"},
		{name: "clears on empty", prev: "12.5", next: "", want: ""},
		{name: "keeps previous on negative sign", prev: "5", next: "-5", want: "5"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := AcceptAmountInput(test.prev, test.next)
			if got != test.want {
				t.Errorf("AcceptAmountInput(%q, %q) = %q, want %q", test.prev, test.next, got, test.want)
			}
		})
	}
}

// Requirement: batch validation keys every failing field as <field>-<index>
// and requires a strictly positive amount.
func TestValidateDrafts(t *testing.T) {
	full := func() TransactionDraft {
		d := NewTransactionDraft()
		d.AccountID = "acc-1"
		d.Amount = "12.50"
		d.Name = "Coffee"
		d.MerchantName = "Blue Bottle"
		d.PaymentChannel = "in store"
		d.TransactionID = "txn-1"
		d.TransactionType = "place"
		d.Category = FinanceCategory{Primary: "FOOD_AND_DRINK", Detailed: "FOOD_AND_DRINK_COFFEE"}
		return d
	}

	t.Run("accepts complete drafts", func(t *testing.T) {
		errs := ValidateDrafts([]TransactionDraft{full(), full()})
		if errs.Has() {
			t.Fatalf("ValidateDrafts() = %v, want no errors", errs)
		}
	})

	t.Run("keys second draft errors with index 1", func(t *testing.T) {
		second := full()
		second.MerchantName = ""
		errs := ValidateDrafts([]TransactionDraft{full(), second})

		if len(errs) != 1 {
			t.Fatalf("ValidateDrafts() = %v, want exactly one error", errs)
		}
		if _, ok := errs["merchant_name-1"]; !ok {
			t.Errorf("ValidateDrafts() missing key merchant_name-1, got %v", errs)
		}
	})

	t.Run("rejects zero and negative amounts", func(t *testing.T) {
		for _, amount := range []string{"0", "0.00", "", "abc"} {
			d := full()
			d.Amount = amount
			errs := ValidateDrafts([]TransactionDraft{d})
			if _, ok := errs["amount-0"]; !ok {
				t.Errorf("ValidateDrafts() amount %q: missing amount-0 error", amount)
			}
		}
	})
}

func assertFieldErrors(t *testing.T, errs FieldErrors, wantKeys []string) {
	t.Helper()
	if len(errs) != len(wantKeys) {
		t.Fatalf("got %d field errors (%v), want %d (%v)", len(errs), errs, len(wantKeys), wantKeys)
	}
	for _, key := range wantKeys {
		if errs[key] == "" {
			t.Errorf("missing error for field %q in %v", key, errs)
		}
	}
}
