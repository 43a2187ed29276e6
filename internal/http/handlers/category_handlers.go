package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/catalog-admin/internal/catalog"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

// CreateCategoryHandler godoc
// @Summary Create a category
// @Description Creates a category and adds it to the categories of every listed product
// @Tags categories
// @Accept json
// @Produce json
// @Param category body CategoryRequest true "Category to add"
// @Success 201 {object} models.Category
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse "Referenced product not found"
// @Failure 500 {object} ErrorResponse
// @Router /categories [post]
func (s *Server) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	products, err := objectIDs("products", req.Products)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.categories.Create(r.Context(), catalog.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Products:    products,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// ListCategoriesHandler godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} pagination.Page[catalog.CategoryView]
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /categories [get]
func (s *Server) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.parsePagination(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.categories.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, page)
}

// GetCategoryHandler godoc
// @Summary Get category by ID
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} catalog.CategoryView
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /categories/{id} [get]
func (s *Server) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.categories.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, view)
}

// UpdateCategoryHandler godoc
// @Summary Update a category
// @Description Applies the present fields. A non-empty products list moves the category's back-references.
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body CategoryPatchRequest true "Fields to update"
// @Success 200 {object} models.Category
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /categories/{id} [patch]
func (s *Server) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req CategoryPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	products, err := objectIDsPtr("products", req.Products)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.categories.Update(r.Context(), id, models.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Products:    products,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, updated)
}

// DeleteCategoryHandler godoc
// @Summary Delete a category
// @Description Removes the category from its products and deletes it
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /categories/{id} [delete]
func (s *Server) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.categories.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, MessageResponse{Message: "Successfully deleted"})
}
