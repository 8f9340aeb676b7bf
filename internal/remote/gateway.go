// Package remote mirrors per-user state to a remote key-value table.
//
// The contract is last write wins: Save overwrites the user's row, Load returns
// whatever was written last. Versioned or merging semantics can replace it behind
// the Gateway interface.
package remote

import (
	"context"
	"errors"

	"benfit/meustreinos/internal/domain"
)

var (
	ErrInvalidJSON = errors.New("invalid_json")
	ErrDisabled    = errors.New("remote sync disabled")
)

// Gateway loads and saves one snapshot per user.
type Gateway interface {
	Enabled() bool
	// Load returns nil and no error when the user has no remote row.
	Load(ctx context.Context, userID string) (*domain.RemoteSnapshot, error)
	Save(ctx context.Context, userID string, snapshot domain.RemoteSnapshot) error
}

// Disabled is the gateway used when no remote endpoint is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Load(context.Context, string) (*domain.RemoteSnapshot, error) { return nil, nil }

func (Disabled) Save(context.Context, string, domain.RemoteSnapshot) error { return nil }
