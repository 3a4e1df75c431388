package scheduler

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/violetshores/vac-themes/internal/ratelimit"
)

const (
	limiterPruneJobName     = "ratelimit_prune"
	DefaultLimiterPruneCron = "*/5 * * * *"
)

// RegisterLimiterPruneJob drops idle send limiter entries on cronExpr.
func RegisterLimiterPruneJob(svc *Service, limiter *ratelimit.Limiter, cronExpr string) error {
	if limiter == nil {
		return fmt.Errorf("limiter prune job requires a limiter")
	}
	if strings.TrimSpace(cronExpr) == "" {
		cronExpr = DefaultLimiterPruneCron
	}

	jobLogger := log.With().
		Str("component", "ratelimit_prune_job").
		Str("job_name", limiterPruneJobName).
		Logger()

	_, err := svc.AddJob(limiterPruneJobName, cronExpr, func() {
		removed := limiter.Prune()
		jobLogger.Debug().Int("removed", removed).Int("remaining", limiter.Len()).Msg("Pruned send limiter")
	})
	if err != nil {
		return fmt.Errorf("add limiter prune job: %w", err)
	}
	return nil
}
