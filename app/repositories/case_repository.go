package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chungtay/app/models"
	"chungtay/pkg/database"
)

// CaseRepository handles the cases collection.
type CaseRepository struct {
	col *mongo.Collection
}

func NewCaseRepository() *CaseRepository {
	return &CaseRepository{col: database.Collection("cases")}
}

// CaseFilter narrows the public case listing.
type CaseFilter struct {
	Keyword  string // case-insensitive substring match on title
	Category string // exact category
}

func (f CaseFilter) query() bson.M {
	// Public listings only ever expose active cases.
	q := bson.M{"status": models.CaseActive}
	if f.Keyword != "" {
		q["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Keyword), "$options": "i"}
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	return q
}

// Create inserts a new case.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID looks up a case by ObjectID.
func (r *CaseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error) {
	var c models.Case
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns one page of active cases matching filter, newest first,
// together with the total matching count.
func (r *CaseRepository) List(ctx context.Context, filter CaseFilter, page, perPage int) ([]models.Case, int64, error) {
	q := filter.query()

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

	cases := []models.Case{}
	if err := cur.All(ctx, &cases); err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// Featured returns up to limit featured active cases, newest first.
func (r *CaseRepository) Featured(ctx context.Context, limit int) ([]models.Case, error) {
	q := bson.M{"status": models.CaseActive, "featured": true}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}

	cases := []models.Case{}
	if err := cur.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// ByUser returns every case owned by userID regardless of status.
func (r *CaseRepository) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Case, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	cases := []models.Case{}
	if err := cur.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// Update applies a partial $set to the case document.
func (r *CaseRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// IncrementSupport atomically bumps the accumulators after a support is
// recorded. Each increment is independently atomic, so concurrent supports
// to the same case interleave safely.
func (r *CaseRepository) IncrementSupport(ctx context.Context, id primitive.ObjectID, amount float64) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"current_amount": amount, "support_count": 1},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

// SetStatus reassigns the moderation status. The prior state is deliberately
// not validated.
func (r *CaseRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.CaseStatus) error {
	return r.Update(ctx, id, bson.M{"status": status})
}

// ToggleFeatured flips the featured flag in a single pipeline update, so
// concurrent toggles never read a stale value.
func (r *CaseRepository) ToggleFeatured(ctx context.Context, id primitive.ObjectID) error {
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"featured":   bson.M{"$not": "$featured"},
			"updated_at": time.Now(),
		}},
	}
	_, err := r.col.UpdateByID(ctx, id, pipeline)
	return err
}

// AppendUpdate pushes an entry onto the case's update log.
func (r *CaseRepository) AppendUpdate(ctx context.Context, id primitive.ObjectID, upd models.CaseUpdate) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"updates": upd},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	return err
}

// CountByStatus aggregates case counts grouped by status.
func (r *CaseRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []models.StatusCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
