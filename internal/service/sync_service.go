package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/metrics"
	"benfit/meustreinos/internal/remote"
	"benfit/meustreinos/internal/repository"
	"benfit/meustreinos/internal/tracker"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"
)

// DefaultSyncTimeout bounds one background push.
const DefaultSyncTimeout = 15 * time.Second

// SyncService mirrors each user's state to the remote table. A pull merges the remote
// snapshot into local state; pushes start once a pull succeeded and only send changed
// snapshots. Remote failures never block local writes.
type SyncService interface {
	Notifier
	Pull(ctx context.Context, userID string) (domain.SyncStatus, error)
	Push(ctx context.Context, userID string) (sent bool, err error)
	Status(userID string) domain.SyncStatus
	Close()
}

type SyncStores struct {
	Users    repository.UserRepository
	Plans    repository.PlanRepository
	Progress repository.ProgressRepository
	Points   repository.PointsRepository
}

type syncService struct {
	gateway remote.Gateway
	stores  SyncStores
	clock   Clock
	metrics *metrics.Manager
	timeout time.Duration

	// lastSent holds the sha256 of the last payload transmitted per user.
	lastSent *freecache.Cache
	locks    *UserLocks

	mu       sync.Mutex
	statuses map[string]domain.SyncStatus
	closed   bool
	wg       sync.WaitGroup
}

func NewSyncService(
	gateway remote.Gateway,
	stores SyncStores,
	clock Clock,
	locks *UserLocks,
	metricsManager *metrics.Manager,
	cacheBytes int,
	timeout time.Duration,
) SyncService {
	if gateway == nil {
		gateway = remote.Disabled{}
	}
	if locks == nil {
		locks = NewUserLocks()
	}
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &syncService{
		gateway:  gateway,
		stores:   stores,
		clock:    clock,
		metrics:  metricsManager,
		timeout:  timeout,
		lastSent: freecache.NewCache(cacheBytes),
		locks:    locks,
		statuses: make(map[string]domain.SyncStatus),
	}
}

func (s *syncService) setStatus(userID string, status domain.SyncStatus) {
	s.mu.Lock()
	s.statuses[userID] = status
	s.mu.Unlock()
}

// Status is loading until the first pull of a user completed.
func (s *syncService) Status(userID string) domain.SyncStatus {
	if !s.gateway.Enabled() {
		return domain.SyncDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.statuses[userID]; ok {
		return status
	}
	return domain.SyncLoading
}

func (s *syncService) Pull(ctx context.Context, userID string) (domain.SyncStatus, error) {
	if !s.gateway.Enabled() {
		return domain.SyncDisabled, nil
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.pull(ctx, userID); err != nil {
		return domain.SyncError, err
	}
	return domain.SyncReady, nil
}

func (s *syncService) pull(ctx context.Context, userID string) error {
	s.setStatus(userID, domain.SyncLoading)

	snapshot, err := s.gateway.Load(ctx, userID)
	if err == nil && snapshot != nil {
		err = s.apply(ctx, userID, snapshot)
	}
	if err != nil {
		s.setStatus(userID, domain.SyncError)
		s.metrics.CounterRemoteSync.WithLabelValues(metrics.SyncFailed).Inc()
		return fmt.Errorf("pull remote state: %w", err)
	}

	s.setStatus(userID, domain.SyncReady)
	s.metrics.CounterRemoteSync.WithLabelValues(metrics.SyncPulled).Inc()
	return nil
}

// apply merges the remote snapshot into local state. Avatar and plan are taken from
// the remote. Points and each month's done count keep the higher of both sides, so a
// completion recorded locally is never undone. Everything is read and validated before
// the first write; only a failing local write can leave the snapshot partly applied.
func (s *syncService) apply(ctx context.Context, userID string, snapshot *domain.RemoteSnapshot) error {
	id, err := parseUserID(userID)
	if err != nil {
		return err
	}

	var plan *domain.UserPlan
	if snapshot.Plan != nil {
		p := snapshot.Plan.Clone()
		p.UserID = userID
		plan = &p
	}

	var points *int
	if snapshot.Points != nil {
		local, err := s.stores.Points.Get(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("read local points: %w", err)
		}
		merged := max(*snapshot.Points, local, 0)
		points = &merged
	}

	progress := make(map[string]domain.Progress, len(snapshot.ProgressByMonth))
	for month, p := range snapshot.ProgressByMonth {
		if _, err := time.Parse(domain.MonthLayout, month); err != nil {
			logrus.WithField("user", userID).WithField("month", month).Warnln("skipping remote progress with bad month")
			continue
		}
		local, err := s.stores.Progress.Get(ctx, userID, month)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("read local progress %s: %w", month, err)
		}
		p.Done = max(p.Done, local.Done)
		progress[month] = tracker.SetTarget(p, p.Target)
	}

	// --- Writes ---
	if snapshot.AvatarID != "" {
		if err := s.stores.Users.SetAvatar(ctx, id, snapshot.AvatarID); err != nil {
			return fmt.Errorf("apply avatar: %w", err)
		}
	}
	if plan != nil {
		if err := s.stores.Plans.Save(ctx, plan); err != nil {
			return fmt.Errorf("apply plan: %w", err)
		}
	}
	if points != nil {
		if err := s.stores.Points.Set(ctx, userID, *points); err != nil {
			return fmt.Errorf("apply points: %w", err)
		}
	}
	for month, p := range progress {
		if err := s.stores.Progress.Save(ctx, userID, month, p); err != nil {
			return fmt.Errorf("apply progress %s: %w", month, err)
		}
	}
	return nil
}

// snapshot collects the local state that is mirrored remotely.
func (s *syncService) snapshot(ctx context.Context, userID string) (domain.RemoteSnapshot, error) {
	var snap domain.RemoteSnapshot

	id, err := parseUserID(userID)
	if err != nil {
		return snap, err
	}
	user, err := s.stores.Users.GetByID(ctx, id)
	switch {
	case err == nil:
		snap.AvatarID = user.Avatar()
	case !errors.Is(err, repository.ErrNotFound):
		return snap, fmt.Errorf("get user: %w", err)
	}

	plan, err := s.stores.Plans.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		snap.Plan = plan
	case !errors.Is(err, repository.ErrNotFound):
		return snap, fmt.Errorf("get plan: %w", err)
	}

	points, err := s.stores.Points.Get(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		points = 0
	default:
		return snap, fmt.Errorf("get points: %w", err)
	}
	snap.Points = &points

	months, err := s.stores.Progress.ListByUser(ctx, userID)
	if err != nil {
		return snap, fmt.Errorf("list progress: %w", err)
	}
	snap.ProgressByMonth = make(map[string]domain.Progress, len(months)+1)
	maps.Copy(snap.ProgressByMonth, months)
	if _, ok := snap.ProgressByMonth[s.clock.Month()]; !ok {
		snap.ProgressByMonth[s.clock.Month()] = tracker.DefaultProgress()
	}
	return snap, nil
}

// Push sends the user's snapshot when it differs from the last one sent. Nothing is
// sent until a pull of the user succeeded, so an unread remote is never overwritten and
// a push never reads the remote back over local changes.
func (s *syncService) Push(ctx context.Context, userID string) (bool, error) {
	if !s.gateway.Enabled() {
		return false, nil
	}
	if status := s.Status(userID); status != domain.SyncReady {
		logrus.WithField("user", userID).WithField("status", status).Debugln("remote not pulled yet, push skipped")
		s.metrics.CounterRemoteSync.WithLabelValues(metrics.SyncSkipped).Inc()
		return false, nil
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return false, err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("encode snapshot: %w", err)
	}
	digest := sha256.Sum256(payload)

	key := []byte(userID)
	if prev, err := s.lastSent.Get(key); err == nil && bytes.Equal(prev, digest[:]) {
		s.metrics.CounterRemoteSync.WithLabelValues(metrics.SyncSkipped).Inc()
		return false, nil
	}
	if err := s.lastSent.Set(key, digest[:], 0); err != nil {
		logrus.WithError(err).WithField("user", userID).Warnln("could not record sync digest")
	}

	if err := s.gateway.Save(ctx, userID, snap); err != nil {
		s.lastSent.Del(key)
		s.metrics.CounterRemoteSync.WithLabelValues(metrics.SyncFailed).Inc()
		return false, fmt.Errorf("push remote state: %w", err)
	}
	s.metrics.CounterRemoteSync.WithLabelValues(metrics.SyncSent).Inc()
	return true, nil
}

// Notify pushes in the background. Failures are logged and retried on the next change.
func (s *syncService) Notify(userID string) {
	if !s.gateway.Enabled() {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.Push(ctx, userID); err != nil {
			logrus.WithError(err).WithField("user", userID).Warnln("remote sync failed")
		}
	}()
}

// Close stops accepting notifications and waits for the running ones.
func (s *syncService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}
