package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/catalog-admin/internal/catalog"
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// productForm is a parsed multipart product body. Close releases the uploaded file.
type productForm struct {
	form  *multipart.Form
	file  multipart.File
	image *catalog.Image
}

func (s *Server) readProductForm(w http.ResponseWriter, r *http.Request) (*productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, invalidField("file", fmt.Sprintf("Must be at most %d bytes", s.maxUploadBytes))
		}
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	pf := &productForm{form: r.MultipartForm}
	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return pf, nil
	case err != nil:
		pf.Close()
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	if header.Size > s.maxUploadBytes {
		file.Close()
		pf.Close()
		return nil, invalidField("file", fmt.Sprintf("Must be at most %d bytes", s.maxUploadBytes))
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	pf.file = file
	pf.image = &catalog.Image{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}
	return pf, nil
}

func (pf *productForm) Close() {
	if pf.file != nil {
		pf.file.Close()
	}
	if pf.form != nil {
		_ = pf.form.RemoveAll()
	}
}

func (pf *productForm) value(name string) (string, bool) {
	vs := pf.form.Value[name]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (pf *productForm) stringPtr(name string) *string {
	v, ok := pf.value(name)
	if !ok {
		return nil
	}
	return &v
}

func (pf *productForm) price() (*float64, error) {
	raw, ok := pf.value("price")
	if !ok {
		return nil, nil
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
		return nil, invalidField("price", "Must be a number")
	}
	return &price, nil
}

// categories accepts a JSON array string, repeated fields or a single id.
// An empty value means an empty list.
func (pf *productForm) categories() (*[]string, error) {
	values := pf.form.Value["categories"]
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		raw := strings.TrimSpace(values[0])
		if raw == "" {
			return &[]string{}, nil
		}
		if !strings.HasPrefix(raw, "[") {
			return &[]string{raw}, nil
		}
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, invalidField("categories", "Must be a JSON array of ids")
		}
		if ids == nil {
			ids = []string{}
		}
		return &ids, nil
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		ids = append(ids, strings.TrimSpace(v))
	}
	return &ids, nil
}

func (pf *productForm) productRequest() (ProductRequest, error) {
	price, err := pf.price()
	if err != nil {
		return ProductRequest{}, err
	}
	categories, err := pf.categories()
	if err != nil {
		return ProductRequest{}, err
	}

	req := ProductRequest{Price: price}
	req.Name, _ = pf.value("name")
	req.Description, _ = pf.value("description")
	if categories != nil {
		req.Categories = *categories
	}
	return req, nil
}

func (pf *productForm) productPatchRequest() (ProductPatchRequest, error) {
	price, err := pf.price()
	if err != nil {
		return ProductPatchRequest{}, err
	}
	categories, err := pf.categories()
	if err != nil {
		return ProductPatchRequest{}, err
	}
	return ProductPatchRequest{
		Name:        pf.stringPtr("name"),
		Description: pf.stringPtr("description"),
		Price:       price,
		Categories:  categories,
	}, nil
}
