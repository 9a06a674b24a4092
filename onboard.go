package onboard

import (
	"github.com/rs/zerolog"

	"github.com/musetax/checkboost-onboard/core"
	"github.com/musetax/checkboost-onboard/services"
)

// interfaces
type (
	APIClient      = core.APIClient
	RunStorage     = core.RunStorage
	HTTPAdapter    = core.HTTPAdapter
	WizardProvider = core.WizardProvider

	Clipboard      = core.Clipboard
	OriginProvider = core.OriginProvider
	Notifier       = core.Notifier
)

// structs
type (
	WizardConfig   = services.WizardConfig
	RunCacheConfig = core.RunCacheConfig
	RunCacheStats  = core.RunCacheStats
)

type (
	Run              = core.Run
	Step             = core.Step
	View             = core.View
	Credentials      = core.Credentials
	UserDraft        = core.UserDraft
	SessionArtifacts = core.SessionArtifacts
	TransactionDraft = core.TransactionDraft
	TransactionBatch = core.TransactionBatch
	WidgetKind       = core.WidgetKind
	WidgetEmbed      = core.WidgetEmbed
)

// response payloads
type (
	AccessTokenResponse   = core.AccessTokenResponse
	CreateUserResponse    = core.CreateUserResponse
	WidgetSessionResponse = core.WidgetSessionResponse
)

const (
	defaultBasePath = "/onboard"
	defaultOrigin   = "http://localhost:3000"
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryRunCache = core.NewInMemoryRunCache
	NewTransactionDraft = core.NewTransactionDraft
	DefaultWizardConfig = services.DefaultWizardConfig
	Widgets             = core.Widgets
	StaticOrigin        = func(origin string) OriginProvider { return core.StaticOrigin(origin) }
)

var (
	ErrRunNotFound = core.ErrRunNotFound
	ErrRunExpired  = core.ErrRunExpired
	ErrRunBusy     = core.ErrRunBusy
)

var (
	ErrWrongStep           = core.ErrWrongStep
	ErrArtifactsIncomplete = core.ErrArtifactsIncomplete
	ErrUnknownWidget       = core.ErrUnknownWidget
	ErrCopyFailed          = core.ErrCopyFailed
)

var (
	ErrAPIClientRequired = core.ErrAPIClientRequired
	ErrStorageRequired   = core.ErrStorageRequired
)

// Config wires an Onboard instance. API is the only hard requirement;
// everything else has a working default.
type Config struct {
	API core.APIClient

	// Optional config
	HTTP         core.HTTPAdapter
	Storage      core.RunStorage
	Clipboard    core.Clipboard
	Notifier     core.Notifier
	Origin       core.OriginProvider
	WizardConfig *WizardConfig
	BasePath     string
	Logger       *zerolog.Logger
}

// Onboard is the assembled onboarding wizard.
type Onboard struct {
	Wizard   *services.WizardService
	Storage  core.RunStorage
	BasePath string
}

func New(config Config) (*Onboard, error) {
	if config.API == nil {
		return nil, ErrAPIClientRequired
	}

	// Set Defaults

	storage := config.Storage
	if storage == nil {
		storage = core.NewInMemoryRunCache(core.RunCacheConfig{})
	}

	clipboard := config.Clipboard
	if clipboard == nil {
		clipboard = core.NopClipboard{}
	}

	origin := config.Origin
	if origin == nil {
		origin = core.StaticOrigin(defaultOrigin)
	}

	wizardConfig := config.WizardConfig
	if wizardConfig == nil {
		defaults := DefaultWizardConfig()
		wizardConfig = &defaults
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}

	sessions := services.NewSessionProvisioner(config.API, origin, log)
	wizard := services.NewWizardService(
		*wizardConfig,
		config.API,
		storage,
		sessions,
		clipboard,
		config.Notifier,
		nil,
		log,
	)

	onboard := &Onboard{
		Wizard:   wizard,
		Storage:  storage,
		BasePath: basePath,
	}

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(wizard, basePath); err != nil {
			return nil, err
		}
	}

	return onboard, nil
}
