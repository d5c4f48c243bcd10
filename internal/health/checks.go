package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthHTTP "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/junimomarket/junimo-market/internal/config"
)

type Endpoints struct {
	DB *sql.DB
}

// NewHealthHandler wires liveness checks for the three collaborators the
// cart core cannot work without: the journal database, the cart Redis and
// the catalog gateway.
func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "junimo-market",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				// Pings the journal's own pool rather than opening a
				// second connection.
				Check: func(ctx context.Context) error {
					return endpoints.DB.PingContext(ctx)
				},
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(healthRedis.Config{
					DSN: cfg.RedisConnect.GetDSN(),
				}),
			},
			health.Config{
				Name:      "catalog-gateway",
				Timeout:   5 * time.Second,
				SkipOnErr: true,
				Check: healthHTTP.New(healthHTTP.Config{
					URL: cfg.Catalog.BaseURL + "/productos",
				}),
			},
		),
	)
	if err != nil {
		return nil, err
	}

	return h, nil
}
