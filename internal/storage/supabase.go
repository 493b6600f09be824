package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Supabase stores objects in a Supabase Storage bucket through its REST API.
type Supabase struct {
	baseURL    string
	serviceKey string
	bucket     string
	http       *http.Client
	now        func() time.Time
}

func NewSupabase(baseURL, serviceKey, bucket string, timeout time.Duration) *Supabase {
	return &Supabase{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		http:       &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

func (s *Supabase) publicPrefix() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/", s.baseURL, s.bucket)
}

func (s *Supabase) Owns(url string) bool {
	return strings.HasPrefix(url, s.publicPrefix())
}

func (s *Supabase) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	path := objectPath(extension(name, ""), s.now())
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return "", err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	if err := s.do(req); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return s.publicPrefix() + path, nil
}

func (s *Supabase) Delete(ctx context.Context, url string) error {
	if !s.Owns(url) {
		return ErrForeignURL
	}
	path := strings.TrimPrefix(url, s.publicPrefix())

	body, err := json.Marshal(map[string][]string{"prefixes": {path}})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	if err := s.do(req); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *Supabase) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
}

func (s *Supabase) do(req *http.Request) error {
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		return fmt.Errorf("storage api status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
