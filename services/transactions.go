package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/musetax/checkboost-onboard/core"
)

// TransactionEntry is the manual transaction entry form: an ordered list of
// drafts (initially one), per-field editing with error clearing, and batch
// submission. Edits replace the draft at its index rather than mutating in
// place, so Drafts snapshots stay stable.
type TransactionEntry struct {
	api      core.APIClient
	notifier core.Notifier
	log      zerolog.Logger

	userID    string
	onSuccess func()
	onError   func(message string)

	mu         sync.Mutex
	drafts     []core.TransactionDraft
	errs       core.FieldErrors
	lastError  string
	submitting bool
}

func NewTransactionEntry(
	api core.APIClient,
	notifier core.Notifier,
	log zerolog.Logger,
	userID string,
	onSuccess func(),
	onError func(message string),
) *TransactionEntry {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	if onSuccess == nil {
		onSuccess = func() {}
	}
	if onError == nil {
		onError = func(string) {}
	}
	return &TransactionEntry{
		api:       api,
		notifier:  notifier,
		log:       log,
		userID:    userID,
		onSuccess: onSuccess,
		onError:   onError,
		drafts:    []core.TransactionDraft{core.NewTransactionDraft()},
		errs:      core.FieldErrors{},
	}
}

// Drafts returns a snapshot of the current draft list.
func (e *TransactionEntry) Drafts() []core.TransactionDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.TransactionDraft, len(e.drafts))
	copy(out, e.drafts)
	return out
}

// Errors returns a snapshot of the current field errors.
func (e *TransactionEntry) Errors() core.FieldErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := core.FieldErrors{}
	for k, v := range e.errs {
		out[k] = v
	}
	return out
}

// LastError returns the last submission failure message, if any.
func (e *TransactionEntry) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastError
}

// AddDraft appends a default-valued draft.
func (e *TransactionEntry) AddDraft() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts = append(e.drafts, core.NewTransactionDraft())
}

// RemoveDraft removes the draft at index. The last remaining draft cannot
// be removed.
func (e *TransactionEntry) RemoveDraft(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.drafts) {
		return core.ErrDraftIndex
	}
	if len(e.drafts) == 1 {
		return core.ErrLastDraft
	}

	next := make([]core.TransactionDraft, 0, len(e.drafts)-1)
	next = append(next, e.drafts[:index]...)
	next = append(next, e.drafts[index+1:]...)
	e.drafts = next
	return nil
}

// SetField applies one field edit to the draft at index and clears that
// field's error. The amount field goes through the numeric keystroke
// filter: an input it rejects is silently not applied.
func (e *TransactionEntry) SetField(index int, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.drafts) {
		return core.ErrDraftIndex
	}

	draft := e.drafts[index]
	switch field {
	case "name":
		draft.Name = value
	case "merchant_name":
		draft.MerchantName = value
	case "amount":
		draft.Amount = core.AcceptAmountInput(draft.Amount, value)
	case "account_id":
		draft.AccountID = value
	case "transaction_id":
		draft.TransactionID = value
	case "payment_channel":
		draft.PaymentChannel = value
	case "transaction_type":
		draft.TransactionType = value
	case "iso_currency_code":
		draft.ISOCurrencyCode = value
	case "datetime":
		draft.Datetime = value
	case "date":
		draft.Date = value
	case "primary":
		draft.Category.Primary = value
	case "detailed":
		draft.Category.Detailed = value
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownField, field)
	}

	// Replace at index, preserving order.
	next := make([]core.TransactionDraft, len(e.drafts))
	copy(next, e.drafts)
	next[index] = draft
	e.drafts = next

	e.errs.Clear(core.IndexedKey(field, index))
	return nil
}

// Submit validates every draft and submits the batch in one call. Any
// failing field blocks the whole submission with errors keyed
// <field>-<index>. On success the form resets to a single default draft and
// the success callback runs; on failure the drafts stay intact for
// correction and the error callback runs.
func (e *TransactionEntry) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return core.ErrRunBusy
	}
	e.submitting = true
	e.lastError = ""

	errs := core.ValidateDrafts(e.drafts)
	if errs.Has() {
		e.errs = errs
		e.submitting = false
		e.mu.Unlock()
		return core.ErrSubmitBlocked
	}
	e.errs = core.FieldErrors{}

	batch := core.TransactionBatch{
		UserID:       e.userID,
		Transactions: append([]core.TransactionDraft(nil), e.drafts...),
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	batchID := uuid.NewString()
	e.log.Info().
		Str("batch_id", batchID).
		Str("user_id", e.userID).
		Int("count", len(batch.Transactions)).
		Msg("submitting transaction batch")

	if _, err := e.api.SubmitTransactions(ctx, batch); err != nil {
		msg := core.DisplayMessage(err)
		e.mu.Lock()
		e.lastError = msg
		e.mu.Unlock()
		e.notifier.Error(msg)
		e.onError(msg)
		e.log.Error().Err(err).Str("batch_id", batchID).Msg("transaction batch rejected")
		return fmt.Errorf("failed to submit transactions: %w", err)
	}

	e.mu.Lock()
	e.drafts = []core.TransactionDraft{core.NewTransactionDraft()}
	e.errs = core.FieldErrors{}
	e.mu.Unlock()

	e.notifier.Success("Transaction created successfully.")
	e.onSuccess()
	return nil
}
