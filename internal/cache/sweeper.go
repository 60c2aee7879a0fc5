package cache

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	apperrors "tiercache/internal/common/errors"
	"tiercache/internal/common/logging"
)

// Sweeper reclaims expired L1 entries on a fixed schedule. Lazy expiry on
// the read path already guarantees correctness; the sweeper exists so idle
// expired entries stop holding memory and capacity.
type Sweeper struct {
	cron     *cron.Cron
	service  *Service
	logger   logging.Logger
	interval time.Duration
}

// NewSweeper schedules an expired-entry sweep every interval. The interval
// must be positive; callers disable sweeping by not constructing a Sweeper.
func NewSweeper(service *Service, interval time.Duration, logger logging.Logger) (*Sweeper, error) {
	if service == nil {
		return nil, apperrors.ConfigError("cache service is required")
	}
	if interval <= 0 {
		return nil, apperrors.ConfigError("sweep interval must be positive")
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	s := &Sweeper{
		cron:     cron.New(),
		service:  service,
		logger:   logger,
		interval: interval,
	}

	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return nil, apperrors.ConfigError(fmt.Sprintf("invalid sweep schedule %q: %v", spec, err))
	}
	return s, nil
}

// Start begins sweeping in the background
func (s *Sweeper) Start() {
	s.logger.Info("Starting expired-entry sweeper",
		logging.Field{Key: "interval", Value: s.interval.String()},
	)
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sweeper stopped")
}

func (s *Sweeper) sweep() {
	s.service.SweepExpired()
}
