package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chungtay/app/models"
)

func newCaseFixture() (*CaseService, *fakeCaseStore, *fakeSupportStore, *fakeUserStore) {
	cases := &fakeCaseStore{}
	supports := &fakeSupportStore{}
	users := newFakeUserStore()
	supportSvc := NewSupportService(cases, supports, users, &fakeNotifier{})
	return NewCaseService(cases, supportSvc), cases, supports, users
}

func TestListPaginationMath(t *testing.T) {
	svc, cases, _, _ := newCaseFixture()
	owner := primitive.NewObjectID()
	for i := 0; i < 25; i++ {
		cases.add(&models.Case{
			UserID: owner,
			Title:  fmt.Sprintf("Case %d", i),
			Status: models.CaseActive,
		})
	}

	page1, err := svc.List(context.Background(), "", "", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page1.Cases) != 10 {
		t.Errorf("page 1 size = %d", len(page1.Cases))
	}
	if page1.Pages != 3 {
		t.Errorf("pages = %d", page1.Pages)
	}
	if page1.TotalCount != 25 {
		t.Errorf("totalCount = %d", page1.TotalCount)
	}

	page3, err := svc.List(context.Background(), "", "", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page3.Cases) != 5 {
		t.Errorf("page 3 size = %d", len(page3.Cases))
	}
}

func TestListEmptyMatch(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	list, err := svc.List(context.Background(), "", "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Cases == nil || len(list.Cases) != 0 {
		t.Errorf("cases = %v, want empty non-nil slice", list.Cases)
	}
	if list.Page != 1 || list.Pages != 0 || list.TotalCount != 0 {
		t.Errorf("got page=%d pages=%d total=%d", list.Page, list.Pages, list.TotalCount)
	}
}

func TestListExcludesNonActive(t *testing.T) {
	svc, cases, _, _ := newCaseFixture()
	cases.add(&models.Case{Title: "pending", Status: models.CasePending})
	cases.add(&models.Case{Title: "active", Status: models.CaseActive})
	cases.add(&models.Case{Title: "cancelled", Status: models.CaseCancelled})

	list, err := svc.List(context.Background(), "", "", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.TotalCount != 1 {
		t.Errorf("totalCount = %d, want 1", list.TotalCount)
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	c, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateCaseInput{
		Title:        "Xây cầu cho bản Nà Pó",
		Description:  "Bản Nà Pó cần một cây cầu mới qua suối.",
		Category:     models.CategoryCommunity,
		SupportType:  models.SupportMoney,
		TargetAmount: 100000000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != models.CasePending {
		t.Errorf("status = %q, want pending", c.Status)
	}
	if c.CurrentAmount != 0 || c.SupportCount != 0 {
		t.Error("accumulators must start at zero")
	}
}

func TestCreateMonetaryNeedsTarget(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateCaseInput{
		Title:       "Thiếu mục tiêu",
		Description: "Một hoàn cảnh cần hỗ trợ tiền nhưng thiếu mục tiêu.",
		Category:    models.CategoryMedical,
		SupportType: models.SupportMoney,
	})
	if !IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestDetailComposesRecentSupports(t *testing.T) {
	svc, cases, supports, users := newCaseFixture()
	c := cases.add(&models.Case{Title: "detail", Status: models.CaseActive, SupportType: models.SupportMoney})
	donor := users.add("G")

	for i := 0; i < 12; i++ {
		supports.supports = append(supports.supports, models.Support{
			ID:     primitive.NewObjectID(),
			CaseID: c.ID,
			UserID: donor.ID,
			Amount: float64(1000 * (i + 1)),
			Status: models.SupportCompleted,
		})
	}

	detail, err := svc.Detail(context.Background(), c.ID.Hex())
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Title != "detail" {
		t.Errorf("title = %q", detail.Title)
	}
	if len(detail.RecentSupports) != 10 {
		t.Errorf("recent supports = %d, want capped at 10", len(detail.RecentSupports))
	}
	// Newest first.
	if detail.RecentSupports[0].Amount != 12000 {
		t.Errorf("first amount = %v", detail.RecentSupports[0].Amount)
	}
}

func TestDetailNotFound(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	if _, err := svc.Detail(context.Background(), "garbage"); !errors.Is(err, ErrNotFound) {
		t.Errorf("malformed id: err = %v", err)
	}
	if _, err := svc.Detail(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing case: err = %v", err)
	}
}

func TestUpdateOwnerOnly(t *testing.T) {
	svc, cases, _, _ := newCaseFixture()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	c := cases.add(&models.Case{UserID: owner, Title: "before", Status: models.CaseActive})

	if _, err := svc.Update(context.Background(), stranger, false, c.ID.Hex(), UpdateCaseInput{
		Title: "hijacked title",
	}); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger update: err = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(context.Background(), owner, false, c.ID.Hex(), UpdateCaseInput{
		Title: "after edit",
	})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "after edit" {
		t.Errorf("title = %q", updated.Title)
	}

	// Admins may edit any case.
	if _, err := svc.Update(context.Background(), stranger, true, c.ID.Hex(), UpdateCaseInput{
		Title: "admin edit",
	}); err != nil {
		t.Errorf("admin update: %v", err)
	}
}

func TestModerationTransitionsArePermissive(t *testing.T) {
	svc, cases, _, _ := newCaseFixture()
	c := cases.add(&models.Case{Title: "done", Status: models.CaseCompleted})

	// Approving an already-completed case reassigns it without error.
	got, err := svc.Approve(context.Background(), c.ID.Hex())
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != models.CaseActive {
		t.Errorf("status = %q, want active", got.Status)
	}

	got, err = svc.Reject(context.Background(), c.ID.Hex())
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != models.CaseCancelled {
		t.Errorf("status = %q, want cancelled", got.Status)
	}

	got, err = svc.Complete(context.Background(), c.ID.Hex())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != models.CaseCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestModerationMissingCase(t *testing.T) {
	svc, _, _, _ := newCaseFixture()
	if _, err := svc.Approve(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestToggleFeaturedFlips(t *testing.T) {
	svc, cases, _, _ := newCaseFixture()
	c := cases.add(&models.Case{Title: "feat", Status: models.CaseActive})

	got, err := svc.ToggleFeatured(context.Background(), c.ID.Hex())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.Featured {
		t.Error("featured = false after first toggle")
	}

	got, err = svc.ToggleFeatured(context.Background(), c.ID.Hex())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.Featured {
		t.Error("featured = true after second toggle")
	}
}

func TestFeaturedListCapped(t *testing.T) {
	svc, cases, _, _ := newCaseFixture()
	for i := 0; i < 9; i++ {
		cases.add(&models.Case{
			Title:    fmt.Sprintf("f%d", i),
			Status:   models.CaseActive,
			Featured: true,
		})
	}

	featured, err := svc.Featured(context.Background())
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != FeaturedSize {
		t.Errorf("featured = %d, want %d", len(featured), FeaturedSize)
	}
}
