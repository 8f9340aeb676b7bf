package domain

// RemoteSnapshot is the per-user document mirrored to the remote state table.
// Absent fields mean "no remote value" and leave local state untouched.
type RemoteSnapshot struct {
	AvatarID        string              `json:"avatarId,omitempty"`
	Plan            *UserPlan           `json:"plan,omitempty"`
	Points          *int                `json:"points,omitempty"`
	ProgressByMonth map[string]Progress `json:"progressByMonth,omitempty"`
}

// SyncStatus is the state of the remote mirror for one user.
type SyncStatus string

const (
	SyncDisabled SyncStatus = "disabled"
	SyncLoading  SyncStatus = "loading"
	SyncReady    SyncStatus = "ready"
	SyncError    SyncStatus = "error"
)
