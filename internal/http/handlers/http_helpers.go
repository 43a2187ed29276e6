package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/catalog-admin/internal/pagination"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	errMalformedBody = errors.New("malformed request body")
	errEncodeJSON    = errors.New("failed to marshal JSON")
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: failed to read JSON: %v", errMalformedBody, err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return fmt.Errorf("%w: body must have only a single json value", errMalformedBody)
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", errEncodeJSON, err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes data as JSON. Nothing has been written when marshalling fails, so the
// client gets a 500 instead of an empty response.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	err := writeJSON(w, status, data)
	if err == nil {
		return
	}
	if errors.Is(err, errEncodeJSON) {
		s.logger.Error("failed to encode response",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		_ = writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	s.logger.Warn("failed to write response",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
}

// writeError maps err to a status code. Unknown errors are logged and answered without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		s.respond(w, r, http.StatusBadRequest, ValidationErrorResponse{Errors: validationErrs})
	case errors.Is(err, errMalformedBody), errors.Is(err, repo.ErrInvalidID):
		s.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, repo.ErrNotFound):
		s.respond(w, r, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		s.respond(w, r, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, invalidField("id", "Invalid id")
	}
	return id, nil
}

// queryID parses an optional id query parameter. An absent parameter yields nil.
func queryID(r *http.Request, name string) (*primitive.ObjectID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, invalidField(name, "Invalid id")
	}
	return &id, nil
}

// parsePagination reads page and limit. Absent values fall back to the configured defaults.
func (s *Server) parsePagination(r *http.Request) (pagination.Pagination, error) {
	q := r.URL.Query()
	var errs ValidationErrors

	parse := func(name string) int {
		raw := q.Get(name)
		if raw == "" {
			return 0
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			errs = append(errs, ValidationError{Field: name, Description: "Must be a positive integer"})
			return 0
		}
		return v
	}

	page := parse("page")
	limit := parse("limit")
	if len(errs) > 0 {
		return pagination.Pagination{}, errs
	}
	p := s.pagination.Resolve(page, limit)
	if p.Overflows() {
		return pagination.Pagination{}, invalidField("page", "Out of range for the requested limit")
	}
	return p, nil
}

// objectIDs converts already validated hex ids.
func objectIDs(field string, hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for i, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, invalidField(fmt.Sprintf("%s[%d]", field, i), "Invalid id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func objectIDsPtr(field string, hexes *[]string) (*[]primitive.ObjectID, error) {
	if hexes == nil {
		return nil, nil
	}
	ids, err := objectIDs(field, *hexes)
	if err != nil {
		return nil, err
	}
	return &ids, nil
}
