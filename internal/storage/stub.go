package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// StubUploader discards uploads and returns deterministic URLs. Used in development and tests.
type StubUploader struct {
	baseURL string

	mu   sync.Mutex
	keys []string
}

func NewStubUploader(baseURL string) *StubUploader {
	return &StubUploader{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *StubUploader) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

// Keys returns the keys uploaded so far, in order.
func (s *StubUploader) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}
