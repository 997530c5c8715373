package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chungtay/app/models"
	"chungtay/pkg/database"
)

// SupportRepository handles the supports collection, including the
// statistics aggregation pipelines.
type SupportRepository struct {
	col *mongo.Collection
}

func NewSupportRepository() *SupportRepository {
	return &SupportRepository{col: database.Collection("supports")}
}

// Create inserts a support record. Supports are immutable afterwards.
func (r *SupportRepository) Create(ctx context.Context, s *models.Support) error {
	s.CreatedAt = time.Now()

	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	s.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// RecentByCase returns up to limit most-recent completed supports for a case.
func (r *SupportRepository) RecentByCase(ctx context.Context, caseID primitive.ObjectID, limit int) ([]models.Support, error) {
	q := bson.M{"case_id": caseID, "status": models.SupportCompleted}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}

	supports := []models.Support{}
	if err := cur.All(ctx, &supports); err != nil {
		return nil, err
	}
	return supports, nil
}

// ListByCase returns one page of completed supports for a case, newest first,
// plus the total count.
func (r *SupportRepository) ListByCase(ctx context.Context, caseID primitive.ObjectID, page, perPage int) ([]models.Support, int64, error) {
	q := bson.M{"case_id": caseID, "status": models.SupportCompleted}

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}

	supports := []models.Support{}
	if err := cur.All(ctx, &supports); err != nil {
		return nil, 0, err
	}
	return supports, total, nil
}

// ListByUser returns every support a user has made, newest first.
func (r *SupportRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Support, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	supports := []models.Support{}
	if err := cur.All(ctx, &supports); err != nil {
		return nil, err
	}
	return supports, nil
}

// Totals aggregates the all-time completed-donation amount and count.
func (r *SupportRepository) Totals(ctx context.Context) (models.DonationTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.SupportCompleted}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"amount": bson.M{"$sum": "$amount"},
			"count":  bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return models.DonationTotal{}, err
	}

	var rows []models.DonationTotal
	if err := cur.All(ctx, &rows); err != nil {
		return models.DonationTotal{}, err
	}
	if len(rows) == 0 {
		return models.DonationTotal{}, nil
	}
	return rows[0], nil
}

// MonthlyTotals buckets completed supports created at or after since by
// (calendar year, calendar month), in chronological order. Months with no
// supports do not appear.
func (r *SupportRepository) MonthlyTotals(ctx context.Context, since time.Time) ([]models.MonthlyDonation, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":     models.SupportCompleted,
			"created_at": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$created_at"},
				"month": bson.M{"$month": "$created_at"},
			},
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"year":  "$_id.year",
			"month": "$_id.month",
			"total": 1,
			"count": 1,
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []models.MonthlyDonation
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TopSupporters groups completed, non-anonymous supports by user, summing
// amounts and counting supports, sorted descending by summed amount. A zero
// since means all-time.
func (r *SupportRepository) TopSupporters(ctx context.Context, since time.Time, limit int) ([]models.SupporterTotal, error) {
	match := bson.M{
		"status":    models.SupportCompleted,
		"anonymous": false,
	}
	if !since.IsZero() {
		match["created_at"] = bson.M{"$gte": since}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$user_id",
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []models.SupporterTotal
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
