package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleClient
}

// SubscriptionStatus tracks a client's membership.
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionPaused  SubscriptionStatus = "paused"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// User is the identity of either a Trainer or a Client.
// A client's id doubles as the client id on every client-owned record.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Trainer-specific ---
	ClientIDs []primitive.ObjectID `bson:"clientIds,omitempty" json:"clientIds,omitempty"`

	// --- Client-specific ---
	TrainerID          *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	SubscriptionStatus SubscriptionStatus  `bson:"subscriptionStatus,omitempty" json:"subscriptionStatus,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ManagedBy reports whether the client is assigned to the trainer.
func (u *User) ManagedBy(trainerID primitive.ObjectID) bool {
	return u.TrainerID != nil && *u.TrainerID == trainerID
}
