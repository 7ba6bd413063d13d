package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"pricelist/internal/apperr"
	"pricelist/internal/models"
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

// Error returns the server's message unchanged so it can be shown as-is.
func (e *APIError) Error() string {
	return e.Message
}

var _ apperr.Classified = (*APIError)(nil)

// Kind classifies the failure by status code.
func (e *APIError) Kind() apperr.Kind {
	switch {
	case e.StatusCode == fiber.StatusNotFound:
		return apperr.KindNotFound
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return apperr.KindValidation
	default:
		return apperr.KindUnavailable
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// Client talks to the catalog API over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:3001/api.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, timeout: timeout}
}

// ListProducts fetches the catalog newest first.
func (c *Client) ListProducts(ctx context.Context, page models.Page) ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := c.do(ctx, fiber.Get(c.url("/products", pageQuery(url.Values{}, page))), &products)
	return products, err
}

// SearchProducts fetches products matching the filter.
func (c *Client) SearchProducts(ctx context.Context, filter models.ProductFilter, page models.Page) ([]models.Product, error) {
	q := url.Values{}
	if filter.ArticleNo != "" {
		q.Set("articleNo", filter.ArticleNo)
	}
	if filter.ProductName != "" {
		q.Set("productName", filter.ProductName)
	}
	products := make([]models.Product, 0)
	err := c.do(ctx, fiber.Get(c.url("/products/search", pageQuery(q, page))), &products)
	return products, err
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, fiber.Get(c.url(productPath(id), nil)), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product and returns the stored record.
func (c *Client) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, fiber.Post(c.url("/products", nil)).JSON(req), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct sends a partial update and returns the stored record.
func (c *Client) UpdateProduct(ctx context.Context, id uint, req models.UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, fiber.Put(c.url(productPath(id), nil)).JSON(req), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.do(ctx, fiber.Delete(c.url(productPath(id), nil)), nil)
}

func (c *Client) url(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, agent *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("invalid request: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return apperr.Unavailable(errors.Join(errs...), "Failed to connect to server")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &APIError{StatusCode: status, Message: fmt.Sprintf("unexpected response (status %d)", status)}
	}
	if !env.Success || status >= fiber.StatusBadRequest {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", status)
		}
		return &APIError{StatusCode: status, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func productPath(id uint) string {
	return "/products/" + strconv.FormatUint(uint64(id), 10)
}

func pageQuery(q url.Values, page models.Page) url.Values {
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	if page.Offset > 0 {
		q.Set("offset", strconv.Itoa(page.Offset))
	}
	return q
}
