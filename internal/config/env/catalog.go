package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type catalogEnv struct {
	TTL          time.Duration `env:"CATALOG_TTL" envDefault:"1h"`
	RefreshGrace time.Duration `env:"CATALOG_REFRESH_GRACE" envDefault:"0"`
	SyncInterval time.Duration `env:"CATALOG_SYNC_INTERVAL" envDefault:"1h"`
}

type catalog struct {
	raw catalogEnv
}

func NewCatalogConfig() (*catalog, error) {
	var raw catalogEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &catalog{raw: raw}, nil
}

func (cfg *catalog) TTL() time.Duration          { return cfg.raw.TTL }
func (cfg *catalog) RefreshGrace() time.Duration { return cfg.raw.RefreshGrace }
func (cfg *catalog) SyncInterval() time.Duration { return cfg.raw.SyncInterval }
