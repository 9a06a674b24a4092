package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/musetax/checkboost-onboard/core"
)

// SessionProvisioner exchanges a user id and access token for a widget
// session token. Transport failures and semantic failures (a well-formed
// response without a token) surface as different error kinds, but neither
// is retried.
type SessionProvisioner struct {
	api    core.APIClient
	origin core.OriginProvider
	log    zerolog.Logger
}

func NewSessionProvisioner(api core.APIClient, origin core.OriginProvider, log zerolog.Logger) *SessionProvisioner {
	return &SessionProvisioner{api: api, origin: origin, log: log}
}

// Provision requests a widget session token for the user, registering the
// deployment origin as the allowed embedding domain.
func (p *SessionProvisioner) Provision(ctx context.Context, userID, accessToken string) (string, error) {
	domainURLs := []string{p.origin.Origin() + "/"}

	resp, err := p.api.CreateWidgetSession(ctx, userID, domainURLs, accessToken)
	if err != nil {
		p.log.Error().Err(err).Str("user_id", userID).Msg("widget session provisioning failed")
		return "", fmt.Errorf("failed to provision session: %w", err)
	}

	return resp.SessionToken, nil
}
