package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/metrics"
	"benfit/meustreinos/internal/planner"
	"benfit/meustreinos/internal/repository"
	"benfit/meustreinos/internal/tracker"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidMonth   = errors.New("month must look like YYYY-MM")
	ErrInvalidDay     = errors.New("day must look like YYYY-MM-DD")
	ErrMarkOutOfRange = errors.New("mark index out of range for this session")
)

// Overview is the progress card of a month together with the gamification state.
type Overview struct {
	Month      string          `json:"month"`
	Progress   domain.Progress `json:"progress"`
	Percent    int             `json:"percent"`
	Points     int             `json:"points"`
	Trophy     tracker.Trophy  `json:"trophy"`
	NextTrophy *tracker.Trophy `json:"nextTrophy,omitempty"`
	Phrase     string          `json:"phrase"`
}

type FinishResult struct {
	Overview
	Awarded int  `json:"awarded"`
	AllDone bool `json:"allDone"`
}

type MarksView struct {
	SessionID string       `json:"sessionId"`
	Day       string       `json:"day"`
	Marks     domain.Marks `json:"marks"`
	ItemCount int          `json:"itemCount"`
	AllDone   bool         `json:"allDone"`
}

type SessionSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ItemCount   int    `json:"itemCount"`
	RestSeconds int    `json:"restSeconds"`
}

type Dashboard struct {
	Overview    Overview         `json:"overview"`
	Goal        domain.Goal      `json:"goal,omitempty"`
	GroupCounts map[string]int   `json:"groupCounts"`
	Sessions    []SessionSummary `json:"sessions"`
}

type ProgressService interface {
	Overview(ctx context.Context, userID, month string) (*Overview, error)
	SetTarget(ctx context.Context, userID string, target int) (*Overview, error)
	FinishSession(ctx context.Context, userID, sessionID string) (*FinishResult, error)
	Marks(ctx context.Context, userID, sessionID, day string) (*MarksView, error)
	ToggleMark(ctx context.Context, userID, sessionID string, index int) (*MarksView, error)
	ResetMarks(ctx context.Context, userID, sessionID string) error
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	pointsRepo   repository.PointsRepository
	marksRepo    repository.MarksRepository
	plans        PlanService
	exercises    ExerciseService
	clock        Clock
	locks        *UserLocks
	metrics      *metrics.Manager
	notifier     Notifier
}

func NewProgressService(
	progressRepo repository.ProgressRepository,
	pointsRepo repository.PointsRepository,
	marksRepo repository.MarksRepository,
	plans PlanService,
	exercises ExerciseService,
	clock Clock,
	locks *UserLocks,
	metricsManager *metrics.Manager,
	notifier Notifier,
) ProgressService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if locks == nil {
		locks = NewUserLocks()
	}
	return &progressService{
		progressRepo: progressRepo,
		pointsRepo:   pointsRepo,
		marksRepo:    marksRepo,
		plans:        plans,
		exercises:    exercises,
		clock:        clock,
		locks:        locks,
		metrics:      metricsManager,
		notifier:     notifier,
	}
}

// progress reads the stored progress of a month; a month nobody touched is the default.
func (s *progressService) progress(ctx context.Context, userID, month string) (domain.Progress, error) {
	p, err := s.progressRepo.Get(ctx, userID, month)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return tracker.DefaultProgress(), nil
		}
		return domain.Progress{}, fmt.Errorf("get progress %s: %w", month, err)
	}
	return tracker.Normalize(p), nil
}

func (s *progressService) points(ctx context.Context, userID string) (int, error) {
	points, err := s.pointsRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get points: %w", err)
	}
	return max(points, 0), nil
}

func buildOverview(month string, p domain.Progress, points int) *Overview {
	o := &Overview{
		Month:    month,
		Progress: p,
		Percent:  tracker.Percent(p),
		Points:   points,
		Trophy:   tracker.TrophyFor(points),
		Phrase:   tracker.Phrase(points),
	}
	if next, ok := tracker.NextTrophy(points); ok {
		o.NextTrophy = &next
	}
	return o
}

// Overview never fails on storage errors: it logs them and shows defaults.
func (s *progressService) Overview(ctx context.Context, userID, month string) (*Overview, error) {
	if month == "" {
		month = s.clock.Month()
	} else if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		return nil, ErrInvalidMonth
	}

	log := logrus.WithField("user", userID)
	p, err := s.progress(ctx, userID, month)
	if err != nil {
		log.WithError(err).Warnln("serving default progress")
		p = tracker.DefaultProgress()
	}
	points, err := s.points(ctx, userID)
	if err != nil {
		log.WithError(err).Warnln("serving zero points")
		points = 0
	}
	return buildOverview(month, p, points), nil
}

func (s *progressService) SetTarget(ctx context.Context, userID string, target int) (*Overview, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	month := s.clock.Month()
	p, err := s.progress(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	points, err := s.points(ctx, userID)
	if err != nil {
		return nil, err
	}

	p = tracker.SetTarget(p, target)
	if err := s.progressRepo.Save(ctx, userID, month, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	s.notifier.Notify(userID)
	return buildOverview(month, p, points), nil
}

// FinishSession records one completed session of the current plan in this month's
// progress and awards its points. Every call counts.
func (s *progressService) FinishSession(ctx context.Context, userID, sessionID string) (*FinishResult, error) {
	plan, err := s.plans.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	session, ok := plan.Session(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	month := s.clock.Month()
	p, err := s.progress(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	points, err := s.points(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, points = tracker.FinishSession(p, points)
	if err := s.progressRepo.Save(ctx, userID, month, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	if err := s.pointsRepo.Set(ctx, userID, points); err != nil {
		return nil, fmt.Errorf("save points: %w", err)
	}
	s.metrics.CounterSessionsFinished.Inc()
	s.metrics.CounterPointsAwarded.Add(tracker.SessionAward)
	s.notifier.Notify(userID)

	logrus.WithFields(logrus.Fields{
		"user":    userID,
		"session": sessionID,
		"done":    p.Done,
		"points":  points,
	}).Debugln("session finished")

	marks := s.marksOrEmpty(ctx, userID, sessionID, s.clock.Day())
	return &FinishResult{
		Overview: *buildOverview(month, p, points),
		Awarded:  tracker.SessionAward,
		AllDone:  tracker.AllDone(marks, len(session.Items)),
	}, nil
}

func (s *progressService) marks(ctx context.Context, userID, sessionID, day string) (domain.Marks, error) {
	marks, err := s.marksRepo.Get(ctx, userID, sessionID, day)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Marks{}, nil
		}
		return nil, fmt.Errorf("get marks: %w", err)
	}
	if marks == nil {
		marks = domain.Marks{}
	}
	return marks, nil
}

func (s *progressService) marksOrEmpty(ctx context.Context, userID, sessionID, day string) domain.Marks {
	marks, err := s.marks(ctx, userID, sessionID, day)
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Warnln("serving empty marks")
		return domain.Marks{}
	}
	return marks
}

func (s *progressService) session(ctx context.Context, userID, sessionID string) (*domain.SessionPlan, error) {
	plan, err := s.plans.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	session, ok := plan.Session(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func marksView(sessionID, day string, marks domain.Marks, itemCount int) *MarksView {
	return &MarksView{
		SessionID: sessionID,
		Day:       day,
		Marks:     marks,
		ItemCount: itemCount,
		AllDone:   tracker.AllDone(marks, itemCount),
	}
}

// Marks returns the done flags of a session for day, today when day is empty.
func (s *progressService) Marks(ctx context.Context, userID, sessionID, day string) (*MarksView, error) {
	if day == "" {
		day = s.clock.Day()
	} else if _, err := time.Parse(domain.DayLayout, day); err != nil {
		return nil, ErrInvalidDay
	}
	session, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	marks := s.marksOrEmpty(ctx, userID, sessionID, day)
	return marksView(sessionID, day, marks, len(session.Items)), nil
}

func (s *progressService) ToggleMark(ctx context.Context, userID, sessionID string, index int) (*MarksView, error) {
	session, err := s.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Items) {
		return nil, ErrMarkOutOfRange
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	day := s.clock.Day()
	marks, err := s.marks(ctx, userID, sessionID, day)
	if err != nil {
		return nil, err
	}
	marks = tracker.ToggleMark(marks, index)
	if err := s.marksRepo.Save(ctx, userID, sessionID, day, marks); err != nil {
		return nil, fmt.Errorf("save marks: %w", err)
	}
	return marksView(sessionID, day, marks, len(session.Items)), nil
}

func (s *progressService) ResetMarks(ctx context.Context, userID, sessionID string) error {
	if _, err := s.session(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.marksRepo.Delete(ctx, userID, sessionID, s.clock.Day()); err != nil {
		return fmt.Errorf("delete marks: %w", err)
	}
	return nil
}

// Dashboard combines this month's overview with a summary of the current plan.
// Users without a plan get an empty session list.
func (s *progressService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	overview, err := s.Overview(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		Overview:    *overview,
		GroupCounts: map[string]int{},
		Sessions:    []SessionSummary{},
	}

	plan, err := s.plans.Current(ctx, userID)
	if errors.Is(err, ErrPlanNotFound) {
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	exercises, err := s.exercises.List(ctx)
	if err != nil {
		return nil, err
	}

	d.Goal = plan.Goal
	d.GroupCounts = planner.GroupCounts(*plan, exercises)
	for _, session := range plan.Sessions {
		rest := planner.DefaultRestSecs
		if len(session.Items) > 0 {
			rest = planner.RestSeconds(session.Items[0].Rest)
		}
		d.Sessions = append(d.Sessions, SessionSummary{
			ID:          session.ID,
			Name:        session.Name,
			ItemCount:   len(session.Items),
			RestSeconds: rest,
		})
	}
	return d, nil
}
