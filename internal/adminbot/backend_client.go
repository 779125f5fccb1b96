package adminbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/lead-service/internal/api/dto"
	"github.com/spec-kit/lead-service/internal/domain"
)

// BackendClient queries the lead service over HTTP.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendClient creates a client for the service at baseURL.
func NewBackendClient(baseURL string, timeout time.Duration) (*BackendClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	return &BackendClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Leads calls GET /admin/leads.
func (c *BackendClient) Leads(ctx context.Context, period domain.Period, limit int) ([]domain.Lead, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if period != domain.PeriodAll {
		query.Set("period", string(period))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/admin/leads?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request leads: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var payload dto.LeadListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !payload.Success {
		return nil, errors.New("backend reported failure")
	}

	leads := make([]domain.Lead, 0, len(payload.Leads))
	for _, item := range payload.Leads {
		lead, err := item.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("lead %d: %w", item.ID, err)
		}
		leads = append(leads, lead)
	}
	return leads, nil
}
