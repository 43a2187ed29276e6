package handlers

type CategoryRequest struct {
	Name        string   `json:"name" validate:"required,notblank"`
	Description string   `json:"description"`
	Products    []string `json:"products" validate:"omitempty,dive,mongodb"`
}

// CategoryPatchRequest leaves absent fields unchanged.
type CategoryPatchRequest struct {
	Name        *string   `json:"name" validate:"omitempty,notblank"`
	Description *string   `json:"description"`
	Products    *[]string `json:"products" validate:"omitempty,dive,mongodb"`
}

type ProductRequest struct {
	Name        string   `json:"name" validate:"required,notblank"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Categories  []string `json:"categories" validate:"omitempty,dive,mongodb"`
}

type ProductPatchRequest struct {
	Name        *string   `json:"name" validate:"omitempty,notblank"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Categories  *[]string `json:"categories" validate:"omitempty,dive,mongodb"`
}

// OrderRequest.Date accepts RFC3339 or YYYY-MM-DD and defaults to now.
type OrderRequest struct {
	Date     string   `json:"date"`
	Products []string `json:"products" validate:"omitempty,dive,mongodb"`
	Total    *float64 `json:"total" validate:"required,gte=0"`
}

type OrderPatchRequest struct {
	Date     *string   `json:"date"`
	Products *[]string `json:"products" validate:"omitempty,dive,mongodb"`
	Total    *float64  `json:"total" validate:"omitempty,gte=0"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Errors ValidationErrors `json:"errors"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
