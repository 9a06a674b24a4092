package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/musetax/checkboost-onboard/core"
)

type Adapter struct {
	app *fiber.App
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(wizard core.WizardProvider, basePath string) error {
	api := a.app.Group(basePath)

	api.Post("/runs", handleStartRun(wizard))
	api.Get("/runs/:id", handleGetRun(wizard))

	// Step submissions
	api.Post("/runs/:id/token", handleSubmitToken(wizard))
	api.Post("/runs/:id/user", handleSubmitUser(wizard))
	api.Post("/runs/:id/session", handleSubmitSession(wizard))

	// Direct connect override
	api.Put("/runs/:id/direct-connect", handleToggleDirectConnect(wizard))
	api.Post("/runs/:id/direct-connect", handleSubmitDirectConnect(wizard))

	// Widget step
	api.Put("/runs/:id/widget", handleSelectWidget(wizard))
	api.Post("/runs/:id/widget-error", handleReportWidgetError(wizard))
	api.Delete("/runs/:id/widget-error", handleClearWidgetError(wizard))
	api.Post("/runs/:id/transactions", handleSubmitTransactions(wizard))

	api.Post("/runs/:id/copy", handleCopyArtifact(wizard))
	api.Post("/runs/:id/cancel", handleCancel(wizard))

	return nil
}
