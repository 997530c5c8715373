package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chungtay/app/services"
	"chungtay/pkg/bind"
	"chungtay/pkg/response"
)

// supportPageSize is the page size for per-case support listings.
const supportPageSize = 10

type SupportController struct {
	supports *services.SupportService
}

func NewSupportController(supports *services.SupportService) *SupportController {
	return &SupportController{supports: supports}
}

// Create handles POST /api/cases/{id}/supports.
func (c *SupportController) Create(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.CreateSupportInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	support, err := c.supports.Create(r.Context(), uid, chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, err)
		return
	}
	response.Created(w, support)
}

// ListByCase handles GET /api/cases/{id}/supports?page=.
func (c *SupportController) ListByCase(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	views, total, err := c.supports.ListByCase(r.Context(), chi.URLParam(r, "id"), page, supportPageSize)
	if err != nil {
		fail(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"supports":   views,
		"page":       page,
		"totalCount": total,
	})
}

// Mine handles GET /api/supports/mine.
func (c *SupportController) Mine(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := caller(w, r)
	if !ok {
		return
	}

	supports, err := c.supports.MySupports(r.Context(), uid)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"supports": supports})
}
