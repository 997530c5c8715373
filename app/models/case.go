package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseStatus is the moderation state machine: pending → active →
// completed|cancelled. Transitions are applied permissively — setting a
// status never validates the prior state.
type CaseStatus string

const (
	CasePending   CaseStatus = "pending"
	CaseActive    CaseStatus = "active"
	CaseCompleted CaseStatus = "completed"
	CaseCancelled CaseStatus = "cancelled"
)

// CaseStatuses lists every status in enumeration order. Dashboard buckets are
// keyed off this list so absent statuses still appear with zero counts.
var CaseStatuses = []CaseStatus{CasePending, CaseActive, CaseCompleted, CaseCancelled}

// Valid reports whether s is a member of the enumeration.
func (s CaseStatus) Valid() bool {
	switch s {
	case CasePending, CaseActive, CaseCompleted, CaseCancelled:
		return true
	}
	return false
}

// Case categories.
const (
	CategoryMedical       = "medical"
	CategoryEducation     = "education"
	CategoryDisaster      = "disaster"
	CategoryAnimal        = "animal"
	CategoryEnvironmental = "environmental"
	CategoryCommunity     = "community"
	CategoryOther         = "other"
)

// Support types a case accepts.
const (
	SupportMoney = "money"
	SupportItems = "items"
	SupportBoth  = "both"
)

// CaseUpdate is one entry in a case's free-form update log.
type CaseUpdate struct {
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Images    []string  `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Case is a fundraising request in the cases collection.
type Case struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	SupportType string             `bson:"support_type" json:"support_type"`
	NeededItems string             `bson:"needed_items,omitempty" json:"needed_items,omitempty"`

	TargetAmount float64 `bson:"target_amount" json:"target_amount"`
	// CurrentAmount is a monotonically increasing accumulator maintained by
	// an atomic $inc at support-creation time; it is never recomputed.
	CurrentAmount float64 `bson:"current_amount" json:"current_amount"`
	SupportCount  int64   `bson:"support_count" json:"support_count"`

	Status   CaseStatus   `bson:"status" json:"status"`
	Featured bool         `bson:"featured" json:"featured"`
	Updates  []CaseUpdate `bson:"updates,omitempty" json:"updates,omitempty"`

	Images      []string  `bson:"images,omitempty" json:"images,omitempty"`
	Location    string    `bson:"location,omitempty" json:"location,omitempty"`
	ContactInfo string    `bson:"contact_info,omitempty" json:"contact_info,omitempty"`
	EndDate     time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
