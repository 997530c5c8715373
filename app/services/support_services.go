package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chungtay/app/models"
	"chungtay/pkg/logger"
	"chungtay/pkg/metrics"
)

// EventNewSupport is the single event kind published to case topics.
const EventNewSupport = "new_support"

// rankingPlaceholder names a supporter whose user record no longer resolves.
const rankingPlaceholder = "Người dùng ẩn"

// SupportCaseStore is the slice of the case repository the support service
// needs.
type SupportCaseStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error)
	IncrementSupport(ctx context.Context, id primitive.ObjectID, amount float64) error
}

// SupportStore is the slice of the support repository the service needs.
type SupportStore interface {
	Create(ctx context.Context, s *models.Support) error
	RecentByCase(ctx context.Context, caseID primitive.ObjectID, limit int) ([]models.Support, error)
	ListByCase(ctx context.Context, caseID primitive.ObjectID, page, perPage int) ([]models.Support, int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Support, error)
}

// SupportUserStore resolves donor identities and maintains the informational
// per-user totals.
type SupportUserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	IncrementSupportTotals(ctx context.Context, id primitive.ObjectID, amount float64) error
}

// Notifier publishes real-time events to a case topic. Satisfied by
// realtime.Hub.
type Notifier interface {
	Publish(topic, event string, data interface{})
}

type SupportService struct {
	cases    SupportCaseStore
	supports SupportStore
	users    SupportUserStore
	notify   Notifier
}

// NewSupportService wires the support-recording service. The notifier is an
// explicit dependency of the process, not ambient global state.
func NewSupportService(cases SupportCaseStore, supports SupportStore, users SupportUserStore, notify Notifier) *SupportService {
	return &SupportService{cases: cases, supports: supports, users: users, notify: notify}
}

// CreateSupportInput is the pledge payload. The case id comes from the URL.
type CreateSupportInput struct {
	Amount        float64              `json:"amount" validate:"omitempty,gte=0"`
	Items         []models.SupportItem `json:"items,omitempty" validate:"omitempty,dive"`
	Message       string               `json:"message,omitempty" validate:"omitempty,max=500"`
	Anonymous     bool                 `json:"anonymous"`
	PaymentMethod string               `json:"payment_method" validate:"required,oneof=bank_transfer momo zalopay cash other"`
	TransactionID string               `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
}

// Create records a support against a case and bumps the case accumulators.
//
// The support document is persisted first; the case `$inc` follows as a
// second write. The two writes are not wrapped in a transaction — a crash
// between them leaves current_amount inconsistent with the recorded
// supports, and no reconciliation job exists. Any failure aborts the
// operation and surfaces the underlying error.
//
// After the case update, a new_support event is published to the case's
// topic, with the donor identity anonymized when the anonymous flag is set.
func (s *SupportService) Create(ctx context.Context, userID primitive.ObjectID, caseID string, in CreateSupportInput) (*models.Support, error) {
	cid, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		return nil, Validation("invalid case id")
	}

	c, err := s.cases.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}

	if err := validateSupportKind(c.SupportType, in); err != nil {
		return nil, err
	}

	support := &models.Support{
		UserID:        userID,
		CaseID:        cid,
		Amount:        in.Amount,
		Items:         in.Items,
		Message:       in.Message,
		Anonymous:     in.Anonymous,
		PaymentMethod: in.PaymentMethod,
		TransactionID: in.TransactionID,
		Status:        models.SupportCompleted,
	}

	if err := s.supports.Create(ctx, support); err != nil {
		return nil, fmt.Errorf("create support: %w", err)
	}

	if err := s.cases.IncrementSupport(ctx, cid, support.Amount); err != nil {
		return nil, fmt.Errorf("increment case totals: %w", err)
	}

	// The per-user totals are informational; a failure here must not fail
	// the recorded support.
	if err := s.users.IncrementSupportTotals(ctx, userID, support.Amount); err != nil {
		logger.WithCtx(ctx).Warn("support: user totals not updated",
			"user_id", userID.Hex(), "error", err)
	}

	metrics.SupportsCreated.WithLabelValues(support.PaymentMethod).Inc()
	metrics.DonatedAmount.Add(support.Amount)

	s.notify.Publish(cid.Hex(), EventNewSupport, s.view(ctx, *support))

	return support, nil
}

// validateSupportKind enforces the support-type-specific required fields.
func validateSupportKind(supportType string, in CreateSupportInput) error {
	switch supportType {
	case models.SupportMoney:
		if len(in.Items) > 0 {
			return Validation("this case only accepts monetary support")
		}
		if in.Amount <= 0 {
			return Validation("amount must be a positive number")
		}
	case models.SupportItems:
		if len(in.Items) == 0 {
			return Validation("this case only accepts item support")
		}
		if in.Amount < 0 {
			return Validation("amount must not be negative")
		}
	default: // both
		if in.Amount <= 0 && len(in.Items) == 0 {
			return Validation("a positive amount or at least one item is required")
		}
		if in.Amount < 0 {
			return Validation("amount must not be negative")
		}
	}
	return nil
}

// ListByCase returns one page of a case's completed supports with donor
// identities anonymized where requested.
func (s *SupportService) ListByCase(ctx context.Context, caseID string, page, perPage int) ([]models.SupportView, int64, error) {
	cid, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		return nil, 0, Validation("invalid case id")
	}

	supports, total, err := s.supports.ListByCase(ctx, cid, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list supports: %w", err)
	}
	return s.views(ctx, supports), total, nil
}

// MySupports returns the caller's own supports, identity included: the
// anonymization rule only applies to donor-facing displays.
func (s *SupportService) MySupports(ctx context.Context, userID primitive.ObjectID) ([]models.Support, error) {
	supports, err := s.supports.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list supports: %w", err)
	}
	return supports, nil
}

// RecentViews returns up to limit most-recent completed supports for a case,
// anonymized for display. Used by the case-detail composition.
func (s *SupportService) RecentViews(ctx context.Context, caseID primitive.ObjectID, limit int) ([]models.SupportView, error) {
	supports, err := s.supports.RecentByCase(ctx, caseID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent supports: %w", err)
	}
	return s.views(ctx, supports), nil
}

func (s *SupportService) views(ctx context.Context, supports []models.Support) []models.SupportView {
	views := make([]models.SupportView, 0, len(supports))
	for _, sp := range supports {
		views = append(views, s.view(ctx, sp))
	}
	return views
}

// view projects a support for display, resolving the donor through the
// anonymization rule: anonymous supports carry the placeholder identity, all
// others the real name and avatar.
func (s *SupportService) view(ctx context.Context, sp models.Support) models.SupportView {
	donor := models.SupportDonor{Name: models.AnonymousName}
	if !sp.Anonymous {
		if user, err := s.users.FindByID(ctx, sp.UserID); err == nil {
			donor = models.SupportDonor{Name: user.Name, Avatar: user.Avatar}
		} else {
			donor = models.SupportDonor{Name: rankingPlaceholder}
		}
	}

	return models.SupportView{
		ID:        sp.ID,
		Amount:    sp.Amount,
		Items:     sp.Items,
		Message:   sp.Message,
		CreatedAt: sp.CreatedAt,
		User:      donor,
	}
}
