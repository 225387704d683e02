package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/elettil/hospital/internal/platform/collection"
)

// PostgRESTSource reads tables through a PostgREST endpoint such as the one a
// hosted Supabase project exposes under /rest/v1.
type PostgRESTSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPostgRESTSource returns a source for baseURL (the project URL, without
// /rest/v1). apiKey is sent both as the apikey header and as a bearer token.
func NewPostgRESTSource(baseURL, apiKey string, client *http.Client) *PostgRESTSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &PostgRESTSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

func (s *PostgRESTSource) tableURL(q Query) string {
	params := url.Values{}
	params.Set("select", "*")
	if q.ActiveOnly {
		params.Set("is_active", "eq.true")
	}
	if q.OrderBy != "" {
		params.Set("order", q.OrderBy+".asc.nullslast")
	}
	return fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, url.PathEscape(q.Table), params.Encode())
}

func (s *PostgRESTSource) Rows(ctx context.Context, q Query) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.tableURL(q), nil)
	if err != nil {
		return nil, collection.NewFetchError(q.Table, collection.KindTransport, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, collection.NewFetchError(q.Table, collection.KindTransport, fmt.Errorf("GET %s: %w", q.Table, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, collection.NewFetchError(q.Table, collection.KindUnauthorized, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, collection.NewFetchError(q.Table, collection.KindTransport,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, collection.NewFetchError(q.Table, collection.KindMalformed, fmt.Errorf("decode rows: %w", err))
	}
	return rows, nil
}
