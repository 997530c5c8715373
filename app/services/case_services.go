package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chungtay/app/models"
	"chungtay/app/repositories"
)

const (
	// CasePageSize is the fixed page size for public case listings.
	CasePageSize = 10

	// FeaturedSize is the fixed size of the curated featured listing.
	FeaturedSize = 6

	// RecentSupportLimit caps the recent-support list merged into a case
	// detail response.
	RecentSupportLimit = 10
)

// CaseStore is the slice of the case repository the case service needs.
type CaseStore interface {
	Create(ctx context.Context, c *models.Case) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error)
	List(ctx context.Context, filter repositories.CaseFilter, page, perPage int) ([]models.Case, int64, error)
	Featured(ctx context.Context, limit int) ([]models.Case, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Case, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.CaseStatus) error
	ToggleFeatured(ctx context.Context, id primitive.ObjectID) error
	AppendUpdate(ctx context.Context, id primitive.ObjectID, upd models.CaseUpdate) error
}

// RecentViewer supplies the anonymized recent-support list for the detail
// composition. Satisfied by SupportService.
type RecentViewer interface {
	RecentViews(ctx context.Context, caseID primitive.ObjectID, limit int) ([]models.SupportView, error)
}

type CaseService struct {
	cases   CaseStore
	recents RecentViewer
}

func NewCaseService(cases CaseStore, recents RecentViewer) *CaseService {
	return &CaseService{cases: cases, recents: recents}
}

// CreateCaseInput is the case creation payload.
type CreateCaseInput struct {
	Title        string    `json:"title" validate:"required,min=5,max=200"`
	Description  string    `json:"description" validate:"required,min=20"`
	Category     string    `json:"category" validate:"required,oneof=medical education disaster animal environmental community other"`
	SupportType  string    `json:"support_type" validate:"required,oneof=money items both"`
	NeededItems  string    `json:"needed_items,omitempty" validate:"omitempty,max=1000"`
	TargetAmount float64   `json:"target_amount" validate:"omitempty,gte=0"`
	Images       []string  `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
	Location     string    `json:"location,omitempty" validate:"omitempty,max=255"`
	ContactInfo  string    `json:"contact_info,omitempty" validate:"omitempty,max=255"`
	EndDate      time.Time `json:"end_date,omitempty"`
}

// Create opens a new case owned by userID. Every case starts pending and
// only becomes visible once moderation approves it.
func (s *CaseService) Create(ctx context.Context, userID primitive.ObjectID, in CreateCaseInput) (*models.Case, error) {
	if in.SupportType != models.SupportItems && in.TargetAmount <= 0 {
		return nil, Validation("target_amount must be a positive number for monetary cases")
	}
	if in.SupportType != models.SupportMoney && in.NeededItems == "" {
		return nil, Validation("needed_items is required for item cases")
	}

	c := &models.Case{
		UserID:       userID,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		SupportType:  in.SupportType,
		NeededItems:  in.NeededItems,
		TargetAmount: in.TargetAmount,
		Status:       models.CasePending,
		Images:       in.Images,
		Location:     in.Location,
		ContactInfo:  in.ContactInfo,
		EndDate:      in.EndDate,
	}

	if err := s.cases.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}
	return c, nil
}

// CaseList is one page of the public listing.
type CaseList struct {
	Cases      []models.Case `json:"cases"`
	Page       int           `json:"page"`
	Pages      int           `json:"pages"`
	TotalCount int64         `json:"totalCount"`
}

// List returns a fixed-size page of active cases. Keyword matches the title
// case-insensitively; category matches exactly.
func (s *CaseService) List(ctx context.Context, keyword, category string, page int) (*CaseList, error) {
	if page < 1 {
		page = 1
	}

	cases, total, err := s.cases.List(ctx, repositories.CaseFilter{
		Keyword:  keyword,
		Category: category,
	}, page, CasePageSize)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	return &CaseList{
		Cases:      cases,
		Page:       page,
		Pages:      pageCount(total, CasePageSize),
		TotalCount: total,
	}, nil
}

// Featured returns the curated featured listing: up to 6 featured active
// cases, newest first, no pagination.
func (s *CaseService) Featured(ctx context.Context) ([]models.Case, error) {
	cases, err := s.cases.Featured(ctx, FeaturedSize)
	if err != nil {
		return nil, fmt.Errorf("featured cases: %w", err)
	}
	return cases, nil
}

// MyCases returns every case the caller owns, all statuses included.
func (s *CaseService) MyCases(ctx context.Context, userID primitive.ObjectID) ([]models.Case, error) {
	cases, err := s.cases.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("my cases: %w", err)
	}
	return cases, nil
}

// CaseDetail merges a case with its most recent completed supports. This is
// a read-time join; nothing persisted relates the two beyond the reference.
type CaseDetail struct {
	models.Case
	RecentSupports []models.SupportView `json:"recent_supports"`
}

// Detail fetches a case and composes it with up to 10 most-recent completed
// supports, donor identities anonymized per the display rule.
func (s *CaseService) Detail(ctx context.Context, id string) (*CaseDetail, error) {
	cid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	c, err := s.cases.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}

	recents, err := s.recents.RecentViews(ctx, cid, RecentSupportLimit)
	if err != nil {
		return nil, err
	}

	return &CaseDetail{Case: *c, RecentSupports: recents}, nil
}

// UpdateCaseInput carries the owner-editable case fields. Status and the
// accumulators are only reachable through moderation and support recording.
type UpdateCaseInput struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=5,max=200"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=20"`
	NeededItems string   `json:"needed_items,omitempty" validate:"omitempty,max=1000"`
	Images      []string `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
	Location    string   `json:"location,omitempty" validate:"omitempty,max=255"`
	ContactInfo string   `json:"contact_info,omitempty" validate:"omitempty,max=255"`
}

// Update applies the non-empty fields of in to a case the caller owns.
// Admins may edit any case.
func (s *CaseService) Update(ctx context.Context, caller primitive.ObjectID, isAdmin bool, id string, in UpdateCaseInput) (*models.Case, error) {
	c, err := s.owned(ctx, caller, isAdmin, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	fields := map[string]string{
		"title":        in.Title,
		"description":  in.Description,
		"needed_items": in.NeededItems,
		"location":     in.Location,
		"contact_info": in.ContactInfo,
	}
	for key, val := range fields {
		if val != "" {
			set[key] = val
		}
	}
	if len(in.Images) > 0 {
		set["images"] = in.Images
	}

	if len(set) > 0 {
		if err := s.cases.Update(ctx, c.ID, set); err != nil {
			return nil, fmt.Errorf("update case: %w", err)
		}
	}
	return s.cases.FindByID(ctx, c.ID)
}

// CaseUpdateInput is one entry appended to a case's update log.
type CaseUpdateInput struct {
	Title   string   `json:"title" validate:"required,min=2,max=200"`
	Content string   `json:"content" validate:"required,min=5"`
	Images  []string `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
}

// AddUpdate appends a progress entry to a case the caller owns.
func (s *CaseService) AddUpdate(ctx context.Context, caller primitive.ObjectID, isAdmin bool, id string, in CaseUpdateInput) error {
	c, err := s.owned(ctx, caller, isAdmin, id)
	if err != nil {
		return err
	}

	upd := models.CaseUpdate{
		Title:     in.Title,
		Content:   in.Content,
		Images:    in.Images,
		CreatedAt: time.Now(),
	}
	if err := s.cases.AppendUpdate(ctx, c.ID, upd); err != nil {
		return fmt.Errorf("append update: %w", err)
	}
	return nil
}

// owned resolves a case and checks the caller may act on it.
func (s *CaseService) owned(ctx context.Context, caller primitive.ObjectID, isAdmin bool, id string) (*models.Case, error) {
	cid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	c, err := s.cases.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}

	if c.UserID != caller && !isAdmin {
		return nil, ErrForbidden
	}
	return c, nil
}

// ── Moderation ───────────────────────────────────────────────────────────────

// SetStatus reassigns a case's moderation status. Transitions are
// deliberately permissive: the prior state is not validated, so approving an
// already-active case is a no-op reassignment rather than an error.
func (s *CaseService) SetStatus(ctx context.Context, id string, status models.CaseStatus) (*models.Case, error) {
	if !status.Valid() {
		return nil, Validation("invalid status")
	}

	cid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	if _, err := s.cases.FindByID(ctx, cid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}

	if err := s.cases.SetStatus(ctx, cid, status); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	return s.cases.FindByID(ctx, cid)
}

// Approve moves a case to active.
func (s *CaseService) Approve(ctx context.Context, id string) (*models.Case, error) {
	return s.SetStatus(ctx, id, models.CaseActive)
}

// Reject moves a case to cancelled.
func (s *CaseService) Reject(ctx context.Context, id string) (*models.Case, error) {
	return s.SetStatus(ctx, id, models.CaseCancelled)
}

// Complete moves a case to completed.
func (s *CaseService) Complete(ctx context.Context, id string) (*models.Case, error) {
	return s.SetStatus(ctx, id, models.CaseCompleted)
}

// ToggleFeatured flips the editorial featured flag, independent of status.
func (s *CaseService) ToggleFeatured(ctx context.Context, id string) (*models.Case, error) {
	cid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	if _, err := s.cases.FindByID(ctx, cid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}

	if err := s.cases.ToggleFeatured(ctx, cid); err != nil {
		return nil, fmt.Errorf("toggle featured: %w", err)
	}
	return s.cases.FindByID(ctx, cid)
}

// pageCount computes the number of pages needed for total items. Zero items
// means zero pages.
func pageCount(total int64, perPage int) int {
	return int((total + int64(perPage) - 1) / int64(perPage))
}
