package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/catalog-admin/internal/catalog"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

// CreateProductHandler godoc
// @Summary Create a product
// @Description Accepts multipart/form-data with an optional image in "file", or a JSON body.
// @Description "categories" may be a JSON array string, repeated fields or a single id.
// @Tags products
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param name formData string true "Product name"
// @Param description formData string false "Description"
// @Param price formData number true "Price"
// @Param categories formData string false "Category ids"
// @Param file formData file false "Product image"
// @Success 201 {object} models.Product
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse "Referenced category not found"
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var (
		req   ProductRequest
		image *catalog.Image
	)

	if isMultipart(r) {
		form, err := s.readProductForm(w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		defer form.Close()

		if req, err = form.productRequest(); err != nil {
			s.writeError(w, r, err)
			return
		}
		image = form.image
	} else if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := validateRequest(req); err != nil {
		s.writeError(w, r, err)
		return
	}
	categories, err := objectIDs("categories", req.Categories)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.products.Create(r.Context(), catalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Categories:  categories,
	}, image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// ListProductsHandler godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} pagination.Page[catalog.ProductView]
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (s *Server) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.parsePagination(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.products.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, page)
}

// GetProductHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} catalog.ProductView
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [get]
func (s *Server) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.products.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, view)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Multipart or JSON. Absent fields are left unchanged; a new image replaces imageUrl.
// @Tags products
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param name formData string false "Product name"
// @Param description formData string false "Description"
// @Param price formData number false "Price"
// @Param categories formData string false "Category ids"
// @Param file formData file false "Product image"
// @Success 200 {object} models.Product
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [patch]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		req   ProductPatchRequest
		image *catalog.Image
	)
	if isMultipart(r) {
		form, err := s.readProductForm(w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		defer form.Close()

		if req, err = form.productPatchRequest(); err != nil {
			s.writeError(w, r, err)
			return
		}
		image = form.image
	} else if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := validateRequest(req); err != nil {
		s.writeError(w, r, err)
		return
	}
	categories, err := objectIDsPtr("categories", req.Categories)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.products.Update(r.Context(), id, models.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Categories:  categories,
	}, image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, updated)
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Removes the product from its categories and deletes it. Orders keep their references.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.products.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, MessageResponse{Message: "Successfully deleted"})
}
