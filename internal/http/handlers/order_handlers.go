package handlers

import (
	"net/http"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/catalog"
	"github.com/rogerio-castellano/catalog-admin/internal/dashboard"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

func parseOrderDate(raw string) (time.Time, error) {
	t, err := dashboard.ParseDate(raw)
	if err != nil {
		return time.Time{}, invalidField("date", "Must be YYYY-MM-DD or RFC3339")
	}
	return t, nil
}

// CreateOrderHandler godoc
// @Summary Create an order
// @Description Product ids are stored as given. A missing date defaults to now.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body OrderRequest true "Order to add"
// @Success 201 {object} models.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders [post]
func (s *Server) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in := catalog.OrderInput{Total: *req.Total}
	if req.Date != "" {
		date, err := parseOrderDate(req.Date)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		in.Date = date
	}
	products, err := objectIDs("products", req.Products)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in.Products = products

	created, err := s.orders.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// ListOrdersHandler godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} pagination.Page[catalog.OrderView]
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders [get]
func (s *Server) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.parsePagination(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.orders.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, page)
}

// GetOrderHandler godoc
// @Summary Get order by ID
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} catalog.OrderView
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders/{id} [get]
func (s *Server) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.orders.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, view)
}

// UpdateOrderHandler godoc
// @Summary Update an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param order body OrderPatchRequest true "Fields to update"
// @Success 200 {object} models.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders/{id} [patch]
func (s *Server) UpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req OrderPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	patch := models.OrderPatch{Total: req.Total}
	if req.Date != nil {
		date, err := parseOrderDate(*req.Date)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		patch.Date = &date
	}
	if patch.Products, err = objectIDsPtr("products", req.Products); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.orders.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, updated)
}

// DeleteOrderHandler godoc
// @Summary Delete an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders/{id} [delete]
func (s *Server) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.orders.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, MessageResponse{Message: "Successfully deleted"})
}
