// Package clientdir looks up client records in the sibling client service.
package clientdir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
)

// Directory resolves a client id into the directory's view of that client.
type Directory interface {
	GetClient(ctx context.Context, clientID string) (*models.ClientInfo, error)
}

type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDirectory builds a directory client against baseURL, e.g.
// "http://localhost:8080". The request timeout bounds every lookup.
func NewHTTPDirectory(baseURL string, timeout time.Duration) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetClient fetches /v1/clients/{id}. A 404 is translated into the domain
// ErrClientNotFound; every other failure surfaces as ErrDirectoryUnavailable.
func (d *HTTPDirectory) GetClient(ctx context.Context, clientID string) (*models.ClientInfo, error) {
	url := fmt.Sprintf("%s/v1/clients/%s", d.baseURL, clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build client directory request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: id %s", errors.ErrClientNotFound, clientID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", errors.ErrDirectoryUnavailable, resp.StatusCode)
	}

	var client models.ClientInfo
	if err := json.NewDecoder(resp.Body).Decode(&client); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", errors.ErrDirectoryUnavailable, err)
	}
	return &client, nil
}
