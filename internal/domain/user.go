package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// DefaultAvatarID is assigned to new users and to anyone whose avatar was never chosen.
const DefaultAvatarID = "a1"

// User represents an account that owns a plan, progress and points.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // never exposed
	Role         Role               `bson:"role" json:"role"`
	AvatarID     string             `bson:"avatarId,omitempty" json:"avatarId,omitempty"`

	// --- Body measurements (optional) ---
	WeightKg *float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	HeightCm *float64 `bson:"heightCm,omitempty" json:"heightCm,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Avatar returns the chosen avatar id, falling back to the default one.
func (u *User) Avatar() string {
	if u.AvatarID == "" {
		return DefaultAvatarID
	}
	return u.AvatarID
}

// BMI returns the body mass index rounded to one decimal.
// ok is false unless both weight and height are set and positive.
func (u *User) BMI() (bmi float64, ok bool) {
	if u.WeightKg == nil || u.HeightCm == nil {
		return 0, false
	}
	return ComputeBMI(*u.WeightKg, *u.HeightCm)
}

func ComputeBMI(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10, true
}
