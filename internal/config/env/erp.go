package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type erpEnv struct {
	BaseURL  string `env:"ERP_BASE_URL,required"`
	User     string `env:"ERP_USER,required"`
	Password string `env:"ERP_PASSWORD,required"`

	Timeout         time.Duration `env:"ERP_TIMEOUT" envDefault:"30s"`
	DetailBatchSize int           `env:"ERP_DETAIL_BATCH_SIZE" envDefault:"50"`
}

type erp struct {
	raw erpEnv
}

func NewERPConfig() (*erp, error) {
	var raw erpEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &erp{raw: raw}, nil
}

func (cfg *erp) BaseURL() string        { return cfg.raw.BaseURL }
func (cfg *erp) User() string           { return cfg.raw.User }
func (cfg *erp) Password() string       { return cfg.raw.Password }
func (cfg *erp) Timeout() time.Duration { return cfg.raw.Timeout }
func (cfg *erp) DetailBatchSize() int   { return cfg.raw.DetailBatchSize }
