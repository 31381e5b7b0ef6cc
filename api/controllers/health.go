package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/salonstore-backend/api/responses"
	"github.com/angelmondragon/salonstore-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
	"github.com/angelmondragon/salonstore-backend/pkg/logger"
)

const (
	envHeader          = "X-Salonstore-Env"
	readinessTimeout   = 2 * time.Second
	readinessStatusOK  = "ok"
	readinessStatusErr = "unavailable"
)

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(context.Context) error
}

// ReadinessCheck names one dependency pinged by /health/ready.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured dependency concurrently and reports 503
// with per-check results when any of them fails. Checks with a nil Pinger are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var (
			mu     sync.Mutex
			status = make(map[string]string, len(checks))
			failed bool
		)
		var g errgroup.Group
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			check := check
			g.Go(func() error {
				err := check.Pinger.Ping(ctx)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed = true
					status[check.Name] = readinessStatusErr
					if logg != nil {
						logg.Error(logg.WithField(ctx, "dependency", check.Name), "health.ready.failed", err)
					}
					return nil
				}
				status[check.Name] = readinessStatusOK
				return nil
			})
		}
		_ = g.Wait()

		if failed {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency check failed").WithDetails(status))
			return
		}
		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
