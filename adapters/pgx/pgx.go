package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/musetax/checkboost-onboard/core"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.RunStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
