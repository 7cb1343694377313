package posapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/config"
	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// RequestIDHeader correlates a gateway call with backend logs.
const RequestIDHeader = "X-Request-ID"

// Client exposes the POS backend operations used by the application.
type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, form models.ProductForm) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, form models.ProductForm) error
	DeleteProduct(ctx context.Context, id int) error
	ListProviders(ctx context.Context) ([]models.Provider, error)

	ListSales(ctx context.Context, criteria models.FilterCriteria) ([]models.Sale, error)
	CreateSale(ctx context.Context, payload models.SalePayload) error
	UpdateSale(ctx context.Context, id int, payload models.TransactionUpdate) error
	DeleteSale(ctx context.Context, id int) error

	ListPurchases(ctx context.Context, criteria models.FilterCriteria) ([]models.Purchase, error)
	CreatePurchase(ctx context.Context, payload models.PurchasePayload) error
	UpdatePurchase(ctx context.Context, id int, payload models.TransactionUpdate) error
	DeletePurchase(ctx context.Context, id int) error

	ListMovements(ctx context.Context) ([]models.InventoryMovement, error)
	CreateMovement(ctx context.Context, movement models.InventoryMovement) error

	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Register(ctx context.Context, reg models.Registration) error
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, userID int, newRole, adminEmail string) error

	SalesReport(ctx context.Context) (*models.SalesReport, error)
	PurchasesReport(ctx context.Context) (*models.PurchasesReport, error)
	FinanceReport(ctx context.Context) (*models.FinanceReport, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

var _ Client = (*APIClient)(nil)

// APIError is a backend response with status >= 400.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pos api error: status=%d, message=%s", e.StatusCode, e.Message)
}

// APIClient is a resty-backed implementation of Client. Calls are single-shot:
// no retries are configured.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// Option customizes an APIClient.
type Option func(*APIClient)

// WithLogger attaches a logger for per-call debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *APIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCallCounter counts every completed call by method and status code.
func WithCallCounter(counter *prometheus.CounterVec) Option {
	return func(c *APIClient) {
		if counter == nil {
			return
		}
		c.httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			counter.WithLabelValues(resp.Request.Method, strconv.Itoa(resp.StatusCode())).Inc()
			return nil
		})
	}
}

// NewClient builds a POS API client using the provided configuration values.
func NewClient(cfg config.APIConfig, opts ...Option) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetTimeout(cfg.Timeout)

	c := &APIClient{
		httpClient: restyClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Message string `json:"message"`
	Title   string `json:"title"`
}

func (c *APIClient) do(ctx context.Context, method, path string, result any, configure func(*resty.Request)) error {
	requestID := uuid.NewString()
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID)
	if result != nil {
		req.SetResult(result)
	}
	if configure != nil {
		configure(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.logger.Debug("pos api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()))

	if resp.IsError() {
		return newAPIError(resp)
	}
	return nil
}

func newAPIError(resp *resty.Response) *APIError {
	raw := strings.TrimSpace(resp.String())
	message := raw

	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch {
		case body.Message != "":
			message = body.Message
		case body.Title != "":
			message = body.Title
		}
	} else if unquoted, err := strconv.Unquote(raw); err == nil {
		message = unquoted
	}

	return &APIError{StatusCode: resp.StatusCode(), Message: message}
}

func jsonBody(body any) func(*resty.Request) {
	return func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
}
