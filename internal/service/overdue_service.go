package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sfrp-tup/helpline/internal/config"
	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/mail"
	"github.com/sfrp-tup/helpline/internal/repository"
)

const overdueLockKey = "helpline:overdue_scan_lock"

// OverdueService scans for requests that sat too long without an update
// and alerts the staff roster. One alert per overdue episode: a request
// already logged since its last update is skipped until staff touch it
// again.
type OverdueService struct {
	requests repository.RequestRepository
	logs     repository.OverdueLogRepository
	users    repository.UserRepository
	sender   mail.Sender
	redis    *redis.Client
	cfg      config.OverdueConfig
	baseURL  string
	logger   *zap.Logger
}

// NewOverdueService wires the scan. The redis client may be nil, in
// which case the cross-instance lock is skipped.
func NewOverdueService(
	requests repository.RequestRepository,
	logs repository.OverdueLogRepository,
	users repository.UserRepository,
	sender mail.Sender,
	redisClient *redis.Client,
	cfg config.OverdueConfig,
	baseURL string,
	logger *zap.Logger,
) *OverdueService {
	return &OverdueService{
		requests: requests,
		logs:     logs,
		users:    users,
		sender:   sender,
		redis:    redisClient,
		cfg:      cfg,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Execute runs one scan pass and returns how many requests were alerted.
func (s *OverdueService) Execute(ctx context.Context) (int, error) {
	release, acquired, err := s.acquireLock(ctx)
	if err != nil {
		return 0, err
	}
	if !acquired {
		s.logger.Debug("overdue scan lock held elsewhere, skipping")
		return 0, nil
	}
	defer release()

	cutoff := time.Now().Add(-s.cfg.Threshold())
	stale, err := s.requests.ListStale(ctx, domain.NonTerminalStatuses, cutoff)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	staff, err := s.users.ListActiveStaff(ctx)
	if err != nil {
		return 0, err
	}
	recipients := make([]string, 0, len(staff))
	for _, member := range staff {
		if member.Email != "" {
			recipients = append(recipients, member.Email)
		}
	}

	notified := 0
	for i := range stale {
		req := &stale[i]
		alerted, err := s.processRequest(ctx, req, recipients)
		if err != nil {
			s.logger.Error("overdue check failed for request",
				zap.Int64("request_id", req.ID),
				zap.Error(err))
			continue
		}
		if alerted {
			notified++
		}
	}

	s.logger.Info("overdue scan finished",
		zap.Int("stale", len(stale)),
		zap.Int("notified", notified))
	return notified, nil
}

// processRequest decides whether the request starts a new overdue
// episode and, if so, alerts staff and records the episode. The log row
// is written even when there is nobody to email, so a later roster
// change does not cause a duplicate alert for the same episode.
func (s *OverdueService) processRequest(ctx context.Context, req *domain.Request, recipients []string) (bool, error) {
	log, err := s.logs.Latest(ctx, req.ID)
	if err != nil {
		return false, err
	}
	if log != nil && !log.NotifiedAt.Before(req.UpdatedAt) {
		return false, nil
	}

	if len(recipients) > 0 {
		msg := mail.OverdueAlert(req, s.dashboardURL(req))
		msg.To = recipients
		if err := s.sender.Send(msg); err != nil {
			s.logger.Error("failed to send overdue alert",
				zap.Int64("request_id", req.ID),
				zap.Error(err))
		}
	}

	if err := s.logs.Upsert(ctx, req.Type, req.ID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *OverdueService) dashboardURL(req *domain.Request) string {
	return fmt.Sprintf("%s/dashboard/requests/%s/%d", s.baseURL, req.Type, req.ID)
}

// acquireLock takes the cross-instance scan lock. The lock value tags
// this run so only the owner releases it.
func (s *OverdueService) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.redis == nil {
		return func() {}, true, nil
	}
	token := uuid.NewString()
	ok, err := s.redis.SetNX(ctx, overdueLockKey, token, s.cfg.LockTTL()).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		const script = `
            if redis.call("GET", KEYS[1]) == ARGV[1] then
                return redis.call("DEL", KEYS[1])
            end
            return 0`
		if err := s.redis.Eval(context.Background(), script, []string{overdueLockKey}, token).Err(); err != nil && err != redis.Nil {
			s.logger.Warn("failed to release overdue scan lock", zap.Error(err))
		}
	}
	return release, true, nil
}
