package interaction

import (
	"github.com/davitran/stories-engine/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var Module = fx.Provide(NewRepository)

func NewRepository(cfg *config.Config, pool *pgxpool.Pool) Repository {
	if cfg.Storage.Driver == "memory" {
		return NewMemory()
	}
	return NewPgx(pool)
}
