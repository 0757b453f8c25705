package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront/internal/models"
)

// APIClient fetches product pages from the storefront API.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *APIClient) FetchProducts(ctx context.Context, f FilterState) (*models.ProductList, error) {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Category != "" && f.Category != "all" {
		params.Set("category", f.Category)
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("limit", strconv.Itoa(f.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.baseURL+"/api/products?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch products: status %d", resp.StatusCode)
	}

	var page models.ProductList
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}
