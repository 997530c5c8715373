package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chungtay/app/models"
	"chungtay/app/services"
	"chungtay/pkg/bind"
	"chungtay/pkg/response"
)

type CaseController struct {
	cases *services.CaseService
}

func NewCaseController(cases *services.CaseService) *CaseController {
	return &CaseController{cases: cases}
}

// List handles GET /api/cases?keyword=&category=&page=.
func (c *CaseController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	list, err := c.cases.List(r.Context(),
		r.URL.Query().Get("keyword"),
		r.URL.Query().Get("category"),
		page)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, list)
}

// Featured handles GET /api/cases/featured.
func (c *CaseController) Featured(w http.ResponseWriter, r *http.Request) {
	cases, err := c.cases.Featured(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"cases": cases})
}

// Detail handles GET /api/cases/{id}.
func (c *CaseController) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := c.cases.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, detail)
}

// Create handles POST /api/cases.
func (c *CaseController) Create(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.CreateCaseInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	created, err := c.cases.Create(r.Context(), uid, in)
	if err != nil {
		fail(w, err)
		return
	}
	response.Created(w, created)
}

// Update handles PUT /api/cases/{id}.
func (c *CaseController) Update(w http.ResponseWriter, r *http.Request) {
	uid, identity, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.UpdateCaseInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	updated, err := c.cases.Update(r.Context(), uid, identity.Admin(), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, updated)
}

// AddUpdate handles POST /api/cases/{id}/updates.
func (c *CaseController) AddUpdate(w http.ResponseWriter, r *http.Request) {
	uid, identity, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.CaseUpdateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.cases.AddUpdate(r.Context(), uid, identity.Admin(), chi.URLParam(r, "id"), in); err != nil {
		fail(w, err)
		return
	}
	response.Created(w, map[string]string{"message": "Update added"})
}

// MyCases handles GET /api/cases/mine.
func (c *CaseController) MyCases(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := caller(w, r)
	if !ok {
		return
	}

	cases, err := c.cases.MyCases(r.Context(), uid)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"cases": cases})
}

// ── Moderation (admin group) ─────────────────────────────────────────────────

// Approve handles PUT /api/admin/cases/{id}/approve.
func (c *CaseController) Approve(w http.ResponseWriter, r *http.Request) {
	c.moderate(w, r, c.cases.Approve)
}

// Reject handles PUT /api/admin/cases/{id}/reject.
func (c *CaseController) Reject(w http.ResponseWriter, r *http.Request) {
	c.moderate(w, r, c.cases.Reject)
}

// Complete handles PUT /api/admin/cases/{id}/complete.
func (c *CaseController) Complete(w http.ResponseWriter, r *http.Request) {
	c.moderate(w, r, c.cases.Complete)
}

// ToggleFeatured handles PUT /api/admin/cases/{id}/featured.
func (c *CaseController) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	c.moderate(w, r, c.cases.ToggleFeatured)
}

func (c *CaseController) moderate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*models.Case, error)) {
	updated, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, updated)
}
