package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role flags. Ordinary users create cases and supports; admins moderate.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an identity record in the users collection.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, never serialised
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`

	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address  string `bson:"address,omitempty" json:"address,omitempty"`
	Gender   string `bson:"gender,omitempty" json:"gender,omitempty"`
	Bio      string `bson:"bio,omitempty" json:"bio,omitempty"`
	Facebook string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Website  string `bson:"website,omitempty" json:"website,omitempty"`

	BankName    string `bson:"bank_name,omitempty" json:"bank_name,omitempty"`
	BankAccount string `bson:"bank_account,omitempty" json:"bank_account,omitempty"`

	Role string `bson:"role" json:"role"`

	// Informational running totals, incremented alongside support creation.
	// Not guaranteed consistent with live aggregates.
	TotalSupported float64 `bson:"total_supported" json:"total_supported"`
	SupportCount   int64   `bson:"support_count" json:"support_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicProfile is the subset of User exposed on public profile pages.
type PublicProfile struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	Avatar         string             `json:"avatar,omitempty"`
	Bio            string             `json:"bio,omitempty"`
	TotalSupported float64            `json:"total_supported"`
	SupportCount   int64              `json:"support_count"`
	CreatedAt      time.Time          `json:"created_at"`
}

// Public projects the user into its public profile shape.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Name:           u.Name,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		TotalSupported: u.TotalSupported,
		SupportCount:   u.SupportCount,
		CreatedAt:      u.CreatedAt,
	}
}
