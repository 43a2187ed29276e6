package handlers

import (
	"net/http"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/dashboard"
)

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := dashboard.ParseDate(raw)
	if err != nil {
		return nil, invalidField(name, "Must be YYYY-MM-DD or RFC3339")
	}
	return &t, nil
}

func dashboardFilter(r *http.Request) (dashboard.Filter, error) {
	var (
		f    dashboard.Filter
		errs ValidationErrors
		err  error
	)
	collect := func(e error) {
		if ve, ok := e.(ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}

	f.StartDate, err = queryDate(r, "startDate")
	collect(err)
	f.EndDate, err = queryDate(r, "endDate")
	collect(err)
	f.Product, err = queryID(r, "product")
	collect(err)
	f.Category, err = queryID(r, "category")
	collect(err)

	if len(errs) > 0 {
		return dashboard.Filter{}, errs
	}
	return f, nil
}

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Description Order count, revenue and average order value. Dates are inclusive.
// @Description When both category and product are given the category takes precedence unless
// @Description DASHBOARD_FILTER_MODE=intersect.
// @Tags dashboard
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param endDate query string false "End date (YYYY-MM-DD or RFC3339)"
// @Param product query string false "Product ID"
// @Param category query string false "Category ID"
// @Success 200 {object} repo.Metrics
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard/metrics [get]
func (s *Server) GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := dashboardFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.dashboard.Find(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, m)
}

// GetDailySalesHandler godoc
// @Summary Daily sales of the current month
// @Description Days without orders are omitted. Dates are formatted DD/MM/YYYY.
// @Tags dashboard
// @Produce json
// @Success 200 {array} dashboard.DailySale
// @Failure 500 {object} ErrorResponse
// @Router /dashboard/dailysales [get]
func (s *Server) GetDailySalesHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.dashboard.DailySales(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, report.Collect())
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
