// Package catalog wraps the legacy Oracle-backed storefront API. The core
// only needs product/stock reads and order creation from it.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/junimomarket/junimo-market/internal/config"
	"github.com/junimomarket/junimo-market/internal/errors"
	"github.com/junimomarket/junimo-market/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client interface {
	GetProduct(ctx context.Context, code string) (*models.Product, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient builds the gateway client. The timeout is the hard ceiling for
// every call: a hanging gateway resolves as a classified error, never an
// indefinitely blocked checkout.
func NewClient(cfg *config.Catalog) Client {
	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *httpClient) GetProduct(ctx context.Context, code string) (*models.Product, error) {

	var product models.Product

	if err := c.doJSON(ctx, http.MethodGet, "/productoById/"+code, nil, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *httpClient) ListOrders(ctx context.Context) ([]models.Order, error) {

	var orders []models.Order

	if err := c.doJSON(ctx, http.MethodGet, "/ordenes", nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (c *httpClient) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {

	var created models.Order

	if err := c.doJSON(ctx, http.MethodPost, "/addOrden", order, &created); err != nil {
		return nil, err
	}

	// Some gateway versions echo an empty body on create; fall back to the
	// payload we sent so callers always get a usable order number.
	if created.Number == "" {
		created = *order
	}

	return &created, nil
}

// errorBody is the legacy API's error envelope.
type errorBody struct {
	Message string `json:"message"`
}

func (c *httpClient) doJSON(ctx context.Context, method, path string, payload, dest any) error {

	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.InternalError("Failed to encode gateway request").WithError(err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.InternalError("Failed to build gateway request").WithError(err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.GatewayError("Catalog gateway unreachable").WithError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.NotFoundError("Resource not found in catalog").WithDetail(path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {

		var apiErr errorBody

		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}

		return errors.GatewayError(fmt.Sprintf("Catalog gateway returned status %d", resp.StatusCode)).
			WithDetail(apiErr.Message)
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}

		return errors.GatewayError("Malformed response from catalog gateway").WithError(err)
	}

	return nil
}
