package service

import (
	"sync"
	"time"

	"benfit/meustreinos/internal/domain"
)

// Clock gives the current month and day in the configured timezone.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Location: loc, Now: time.Now}
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

func (c Clock) Month() string { return domain.MonthOf(c.now()) }

func (c Clock) Day() string { return domain.DayOf(c.now()) }

// UserLocks serializes the read-then-write updates of one user's state. Services that
// write the same records must share one instance. Entries are dropped once unused.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns the matching unlock.
func (k *UserLocks) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Notifier is told about every change of a user's mirrored state.
type Notifier interface {
	Notify(userID string)
}

// NopNotifier ignores notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}
