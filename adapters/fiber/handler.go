package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/musetax/checkboost-onboard/core"
)

// runResponse is what every run-returning endpoint serializes: the run
// itself plus the derived render decision, and the widget embed props once
// the run renders a widget.
type runResponse struct {
	*core.Run
	View  core.View         `json:"view"`
	Embed *core.WidgetEmbed `json:"embed,omitempty"`
}

func respondRun(c fiber.Ctx, status int, run *core.Run) error {
	resp := runResponse{Run: run, View: run.View()}
	if resp.View == core.ViewWidget {
		embed := core.EmbedFor(run)
		resp.Embed = &embed
	}
	return c.Status(status).JSON(resp)
}

// handleStartRun returns a handler for the run creation endpoint
func handleStartRun(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		run, err := wizard.StartRun()
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusCreated, run)
	}
}

// handleGetRun returns a handler for the run lookup endpoint
func handleGetRun(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		run, err := wizard.GetRun(c.Params("id"))
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleSubmitToken returns a handler for the token step endpoint
func handleSubmitToken(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var creds core.Credentials
		if err := c.Bind().Body(&creds); err != nil {
			return badRequestBody(c)
		}

		run, err := wizard.SubmitToken(c.Context(), c.Params("id"), creds)
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleSubmitUser returns a handler for the user step endpoint
func handleSubmitUser(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var draft core.UserDraft
		if err := c.Bind().Body(&draft); err != nil {
			return badRequestBody(c)
		}

		run, err := wizard.SubmitUser(c.Context(), c.Params("id"), draft)
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleSubmitSession returns a handler for the session step endpoint
func handleSubmitSession(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		run, err := wizard.SubmitSession(c.Params("id"))
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleToggleDirectConnect returns a handler for the direct-connect toggle
func handleToggleDirectConnect(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.Bind().Body(&body); err != nil {
			return badRequestBody(c)
		}

		run, err := wizard.ToggleDirectConnect(c.Params("id"), body.Enabled)
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleSubmitDirectConnect returns a handler for the manual override form
func handleSubmitDirectConnect(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input core.ManualConnectInput
		if err := c.Bind().Body(&input); err != nil {
			return badRequestBody(c)
		}

		run, err := wizard.SubmitDirectConnect(c.Params("id"), input)
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleSelectWidget returns a handler for the widget switcher
func handleSelectWidget(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var body struct {
			Widget core.WidgetKind `json:"widget"`
		}
		if err := c.Bind().Body(&body); err != nil {
			return badRequestBody(c)
		}

		run, err := wizard.SelectWidget(c.Params("id"), body.Widget)
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleReportWidgetError returns a handler for widget-reported errors
func handleReportWidgetError(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var body struct {
			Message string `json:"message"`
		}
		if err := c.Bind().Body(&body); err != nil {
			return badRequestBody(c)
		}

		run, err := wizard.ReportWidgetError(c.Params("id"), body.Message)
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleClearWidgetError returns a handler that resets the error branch
func handleClearWidgetError(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		run, err := wizard.ClearWidgetError(c.Params("id"))
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleSubmitTransactions returns a handler for manual batch submission
func handleSubmitTransactions(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var body struct {
			Transactions []core.TransactionDraft `json:"transactions"`
		}
		if err := c.Bind().Body(&body); err != nil {
			return badRequestBody(c)
		}

		run, err := wizard.SubmitTransactions(c.Context(), c.Params("id"), body.Transactions)
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleCopyArtifact returns a handler for the copy-to-clipboard endpoint
func handleCopyArtifact(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var body struct {
			Field core.ArtifactField `json:"field"`
		}
		if err := c.Bind().Body(&body); err != nil {
			return badRequestBody(c)
		}

		run, err := wizard.CopyArtifact(c.Params("id"), body.Field)
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

// handleCancel returns a handler for cancel-to-restart
func handleCancel(wizard core.WizardProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		run, err := wizard.Cancel(c.Params("id"))
		if err != nil {
			return handleWizardError(c, err)
		}
		return respondRun(c, http.StatusOK, run)
	}
}

func badRequestBody(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(map[string]string{
		"error": "invalid request body",
	})
}

// handleWizardError maps wizard errors to appropriate HTTP responses
func handleWizardError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	return c.Status(status).JSON(map[string]string{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps wizard error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrRunNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrRunExpired):
		return http.StatusGone

	case errors.Is(err, core.ErrWrongStep),
		errors.Is(err, core.ErrRunBusy):
		return http.StatusConflict

	case errors.Is(err, core.ErrEmptyBatch),
		errors.Is(err, core.ErrArtifactsIncomplete),
		errors.Is(err, core.ErrSubmitBlocked),
		errors.Is(err, core.ErrUnknownField),
		errors.Is(err, core.ErrUnknownWidget):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
