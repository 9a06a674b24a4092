package core

// WidgetKind selects one of the three mutually exclusive review widgets.
type WidgetKind string

const (
	WidgetCategorization     WidgetKind = "categorization"
	WidgetHistoricalAnalysis WidgetKind = "historical_analysis"
	WidgetDeductionInsight   WidgetKind = "deduction_insight"
)

// Valid reports whether k names a known widget.
func (k WidgetKind) Valid() bool {
	switch k {
	case WidgetCategorization, WidgetHistoricalAnalysis, WidgetDeductionInsight:
		return true
	}
	return false
}

// Label is the human-readable widget name used by front ends.
func (k WidgetKind) Label() string {
	switch k {
	case WidgetCategorization:
		return "Transaction Widget"
	case WidgetHistoricalAnalysis:
		return "Historical Analysis Widget"
	case WidgetDeductionInsight:
		return "Deduction Widget"
	}
	return string(k)
}

// Widgets lists every widget kind in display order.
func Widgets() []WidgetKind {
	return []WidgetKind{
		WidgetCategorization,
		WidgetHistoricalAnalysis,
		WidgetDeductionInsight,
	}
}

// WidgetErrorCode is a structured code for errors reported by the embedded
// widgets. The widgets themselves only report strings; ClassifyWidgetError
// translates at the boundary so nothing downstream matches on wording.
type WidgetErrorCode string

const (
	WidgetErrNone WidgetErrorCode = ""
	// WidgetErrNoCategorizedTransactions switches the widget view to the
	// manual transaction entry form.
	WidgetErrNoCategorizedTransactions WidgetErrorCode = "no_categorized_transactions"
	WidgetErrGeneric                   WidgetErrorCode = "widget_error"
)

// noCategorizedMessage is the exact string the review widgets report when
// the user has no categorized data. Matched once, here.
const noCategorizedMessage = "No categorized transactions found"

// ClassifyWidgetError maps a widget-reported message to a structured code.
func ClassifyWidgetError(message string) WidgetErrorCode {
	if message == "" {
		return WidgetErrNone
	}
	if message == noCategorizedMessage {
		return WidgetErrNoCategorizedTransactions
	}
	return WidgetErrGeneric
}

// WidgetEmbed is the prop set handed to an embedded widget. The widgets are
// opaque third-party components; this is the entire surface we expose to
// them.
type WidgetEmbed struct {
	Kind         WidgetKind `json:"kind"`
	UserID       string     `json:"userId"`
	AccessToken  string     `json:"access_token"`
	SessionToken string     `json:"session_token"`
}

// EmbedFor builds the embed props for the active widget of a run.
func EmbedFor(r *Run) WidgetEmbed {
	return WidgetEmbed{
		Kind:         r.ActiveWidget,
		UserID:       r.Artifacts.UserID,
		AccessToken:  r.Artifacts.AccessToken,
		SessionToken: r.Artifacts.SessionToken,
	}
}
