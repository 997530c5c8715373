package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chungtay/app/models"
	"chungtay/app/repositories"
)

// In-memory store fakes. They implement the narrow store interfaces the
// services consume, so service behavior is testable without a live database.

type fakeCaseStore struct {
	cases []*models.Case

	increments []float64 // amounts passed to IncrementSupport
}

func (f *fakeCaseStore) add(c *models.Case) *models.Case {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	f.cases = append(f.cases, c)
	return c
}

func (f *fakeCaseStore) Create(ctx context.Context, c *models.Case) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.add(c)
	return nil
}

func (f *fakeCaseStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error) {
	for _, c := range f.cases {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCaseStore) find(id primitive.ObjectID) *models.Case {
	for _, c := range f.cases {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeCaseStore) List(ctx context.Context, filter repositories.CaseFilter, page, perPage int) ([]models.Case, int64, error) {
	matched := []models.Case{}
	for i := len(f.cases) - 1; i >= 0; i-- { // newest first
		c := f.cases[i]
		if c.Status != models.CaseActive {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		matched = append(matched, *c)
	}

	total := int64(len(matched))
	start := (page - 1) * perPage
	if start >= len(matched) {
		return []models.Case{}, total, nil
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeCaseStore) Featured(ctx context.Context, limit int) ([]models.Case, error) {
	out := []models.Case{}
	for i := len(f.cases) - 1; i >= 0 && len(out) < limit; i-- {
		c := f.cases[i]
		if c.Status == models.CaseActive && c.Featured {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCaseStore) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Case, error) {
	out := []models.Case{}
	for _, c := range f.cases {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCaseStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	c := f.find(id)
	if c == nil {
		return mongo.ErrNoDocuments
	}
	if v, ok := set["title"].(string); ok {
		c.Title = v
	}
	if v, ok := set["description"].(string); ok {
		c.Description = v
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (f *fakeCaseStore) SetStatus(ctx context.Context, id primitive.ObjectID, status models.CaseStatus) error {
	c := f.find(id)
	if c == nil {
		return mongo.ErrNoDocuments
	}
	c.Status = status
	return nil
}

func (f *fakeCaseStore) ToggleFeatured(ctx context.Context, id primitive.ObjectID) error {
	c := f.find(id)
	if c == nil {
		return mongo.ErrNoDocuments
	}
	c.Featured = !c.Featured
	return nil
}

func (f *fakeCaseStore) AppendUpdate(ctx context.Context, id primitive.ObjectID, upd models.CaseUpdate) error {
	c := f.find(id)
	if c == nil {
		return mongo.ErrNoDocuments
	}
	c.Updates = append(c.Updates, upd)
	return nil
}

func (f *fakeCaseStore) IncrementSupport(ctx context.Context, id primitive.ObjectID, amount float64) error {
	c := f.find(id)
	if c == nil {
		return mongo.ErrNoDocuments
	}
	c.CurrentAmount += amount
	c.SupportCount++
	f.increments = append(f.increments, amount)
	return nil
}

type fakeSupportStore struct {
	supports []models.Support
}

func (f *fakeSupportStore) Create(ctx context.Context, s *models.Support) error {
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now()
	f.supports = append(f.supports, *s)
	return nil
}

func (f *fakeSupportStore) RecentByCase(ctx context.Context, caseID primitive.ObjectID, limit int) ([]models.Support, error) {
	out := []models.Support{}
	for i := len(f.supports) - 1; i >= 0 && len(out) < limit; i-- {
		s := f.supports[i]
		if s.CaseID == caseID && s.Status == models.SupportCompleted {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSupportStore) ListByCase(ctx context.Context, caseID primitive.ObjectID, page, perPage int) ([]models.Support, int64, error) {
	matched := []models.Support{}
	for i := len(f.supports) - 1; i >= 0; i-- {
		s := f.supports[i]
		if s.CaseID == caseID && s.Status == models.SupportCompleted {
			matched = append(matched, s)
		}
	}
	total := int64(len(matched))
	start := (page - 1) * perPage
	if start >= len(matched) {
		return []models.Support{}, total, nil
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeSupportStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Support, error) {
	out := []models.Support{}
	for _, s := range f.supports {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User

	totalsErr    error // forced IncrementSupportTotals failure
	totalAmounts []float64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUserStore) add(name string) *models.User {
	u := &models.User{ID: primitive.NewObjectID(), Name: name, Role: models.RoleUser}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	u, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := set["name"].(string); ok {
		u.Name = v
	}
	if v, ok := set["avatar"].(string); ok {
		u.Avatar = v
	}
	if v, ok := set["bio"].(string); ok {
		u.Bio = v
	}
	if v, ok := set["password"].(string); ok {
		u.Password = v
	}
	return nil
}

func (f *fakeUserStore) IncrementSupportTotals(ctx context.Context, id primitive.ObjectID, amount float64) error {
	if f.totalsErr != nil {
		return f.totalsErr
	}
	u, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.TotalSupported += amount
	u.SupportCount++
	f.totalAmounts = append(f.totalAmounts, amount)
	return nil
}

func (f *fakeUserStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type published struct {
	topic string
	event string
	data  interface{}
}

type fakeNotifier struct {
	events []published
}

func (f *fakeNotifier) Publish(topic, event string, data interface{}) {
	f.events = append(f.events, published{topic: topic, event: event, data: data})
}

var errStoreDown = errors.New("store down")
