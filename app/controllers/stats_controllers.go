package controllers

import (
	"net/http"

	"chungtay/app/services"
	"chungtay/pkg/response"
)

type StatsController struct {
	stats *services.StatsService
}

func NewStatsController(stats *services.StatsService) *StatsController {
	return &StatsController{stats: stats}
}

// Dashboard handles GET /api/admin/dashboard.
func (c *StatsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := c.stats.Dashboard(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, d)
}

// TopSupporters handles GET /api/stats/top-supporters?window=all|week|month.
func (c *StatsController) TopSupporters(w http.ResponseWriter, r *http.Request) {
	ranked, err := c.stats.TopSupporters(r.Context(), r.URL.Query().Get("window"))
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"supporters": ranked})
}
