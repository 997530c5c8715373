package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Support statuses.
const (
	SupportPending   = "pending"
	SupportCompleted = "completed"
	SupportFailed    = "failed"
)

// Payment methods.
const (
	PayBankTransfer = "bank_transfer"
	PayMomo         = "momo"
	PayZaloPay      = "zalopay"
	PayCash         = "cash"
	PayOther        = "other"
)

// AnonymousName is the placeholder shown instead of a donor's identity when
// the anonymous flag is set.
const AnonymousName = "Ẩn danh"

// SupportItem is one pledged item on an in-kind support.
type SupportItem struct {
	Name     string `bson:"name" json:"name"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// Support is a pledge/contribution record in the supports collection.
// Supports are immutable once created; there is no update path.
type Support struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	CaseID primitive.ObjectID `bson:"case_id" json:"case_id"`

	Amount float64       `bson:"amount" json:"amount"`
	Items  []SupportItem `bson:"items,omitempty" json:"items,omitempty"`

	Message       string `bson:"message,omitempty" json:"message,omitempty"`
	Anonymous     bool   `bson:"anonymous" json:"anonymous"`
	PaymentMethod string `bson:"payment_method" json:"payment_method"`
	TransactionID string `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	Status        string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SupportDonor is the donor identity attached to donor-facing support views.
type SupportDonor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// SupportView is a support projected for display, with the donor identity
// passed through the anonymization rule.
type SupportView struct {
	ID        primitive.ObjectID `json:"id"`
	Amount    float64            `json:"amount"`
	Items     []SupportItem      `json:"items,omitempty"`
	Message   string             `json:"message,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	User      SupportDonor       `json:"user"`
}
