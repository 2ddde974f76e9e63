package logstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteStore talks to the companion log server over HTTP. The server
// exposes GET /get (JSON array of strings), POST /send {msg}, POST /delete
// {index} and POST /clear. A failing /get may answer with an {error}
// envelope instead of an array; both shapes are tolerated.
type RemoteStore struct {
	baseURL string
	client  *http.Client
}

func NewRemoteStore(baseURL string) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *RemoteStore) GetAll(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/get", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch log: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch log: backend returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch log: %w", err)
	}

	var records []string
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	// Not a bare array: try the error envelope before giving up.
	var envelope struct {
		Messages []string `json:"messages"`
		Error    string   `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("fetch log: backend did not return JSON")
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("fetch log: backend error: %s", envelope.Error)
	}
	return envelope.Messages, nil
}

func (s *RemoteStore) Append(ctx context.Context, record string) error {
	return s.post(ctx, "/send", map[string]any{"msg": record})
}

func (s *RemoteStore) RemoveAt(ctx context.Context, index int) error {
	if index < 0 {
		return ErrIndexOutOfRange
	}
	return s.post(ctx, "/delete", map[string]any{"index": index})
}

func (s *RemoteStore) Clear(ctx context.Context) error {
	return s.post(ctx, "/clear", map[string]any{})
}

func (s *RemoteStore) post(ctx context.Context, path string, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: backend returned %d", path, resp.StatusCode)
	}
	return nil
}
