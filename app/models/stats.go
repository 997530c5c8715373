package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// StatusCount is one bucket of the case-count-by-status aggregate.
type StatusCount struct {
	Status CaseStatus `bson:"_id" json:"status"`
	Count  int64      `bson:"count" json:"count"`
}

// DonationTotal is the all-time sum/count over completed supports.
type DonationTotal struct {
	Amount float64 `bson:"amount" json:"amount"`
	Count  int64   `bson:"count" json:"count"`
}

// MonthlyDonation is one month bucket of the trailing-12-months series.
type MonthlyDonation struct {
	Year  int     `bson:"year" json:"year"`
	Month int     `bson:"month" json:"month"`
	Total float64 `bson:"total" json:"total"`
	Count int64   `bson:"count" json:"count"`
}

// SupporterTotal is a per-user group row from the ranking pipeline, before
// identity enrichment.
type SupporterTotal struct {
	UserID primitive.ObjectID `bson:"_id" json:"user_id"`
	Total  float64            `bson:"total" json:"total"`
	Count  int64              `bson:"count" json:"count"`
}

// TopSupporter is a ranking row enriched with the user's display identity.
type TopSupporter struct {
	UserID primitive.ObjectID `json:"user_id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar,omitempty"`
	Total  float64            `json:"total"`
	Count  int64              `json:"count"`
}
