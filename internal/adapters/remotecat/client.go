package remotecat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"starmap-service/internal/adapters/secfile"
	"starmap-service/internal/domain"
	"starmap-service/internal/platform/obs"
	"starmap-service/internal/ports"
)

// Client implements the SectorCatalog port against a remote catalog service
// that exports sectors as schema-validated JSON documents.
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewClient(baseURL, apiKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base URL is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 15 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

// FetchSector downloads one sector export and decodes it. The response body
// goes through the same schema validation as local JSON imports, so a broken
// upstream cannot smuggle malformed worlds into the store.
func (c *Client) FetchSector(ctx context.Context, name string) (_ *ports.SectorData, err error) {
	defer obs.Time(ctx, "catalog.FetchSector")(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("fetch sector: name must be non-empty")
	}

	endpoint := fmt.Sprintf("%s/sectors/%s/export", c.baseURL, url.PathEscape(name))

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return nil, fmt.Errorf("fetch sector %q: %w", name, domain.ErrSectorNotFound)
		}
		return nil, fmt.Errorf("fetch sector %q: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch sector %q: read body: %w", name, err)
	}

	data, err := secfile.DecodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("fetch sector %q: %w", name, err)
	}

	return data, nil
}
