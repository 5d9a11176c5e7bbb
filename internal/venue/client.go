package venue

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"propcore/internal/models"
	"propcore/pkg/ratelimit"
	"propcore/pkg/retry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Ошибки venue клиента
var (
	ErrOrderRejected = errors.New("order rejected by venue")
)

// ClientConfig - конфигурация REST клиента venue
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	RateLimit float64 // запросов в секунду
	Burst     float64
	HTTP      HTTPClientConfig
	Retry     retry.Config
}

// Client - REST клиент торговой площадки
//
// Реализует Venue. Все вызовы ограничены token-bucket rate limiter'ом
// и повторяются с экспоненциальным backoff для временных ошибок.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	limiter    *ratelimit.RateLimiter
	assets     *AssetIndexCache
	log        *zap.Logger
}

var _ Venue = (*Client)(nil)

// NewClient создаёт REST клиент venue
func NewClient(cfg ClientConfig, assets *AssetIndexCache, log *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: NewHTTPClient(cfg.HTTP),
		limiter:    ratelimit.New(cfg.RateLimit, cfg.Burst),
		assets:     assets,
		log:        log,
	}
}

// PlaceOrder размещает ордер на площадке
func (c *Client) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*OrderResult, error) {
	// Резолвим внутренний индекс актива через read-through кэш
	assetIndex, err := c.assets.Get(ctx, params.Symbol)
	if err != nil {
		return nil, fmt.Errorf("resolve asset index for %s: %w", params.Symbol, err)
	}

	body := struct {
		PlaceOrderParams
		AssetIndex int `json:"asset_index"`
	}{PlaceOrderParams: params, AssetIndex: assetIndex}

	var result OrderResult
	err = retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodPost, "/v1/orders", body, &result)
	}, c.cfg.Retry)
	if err != nil {
		return nil, err
	}

	if result.Status == "rejected" {
		return &result, fmt.Errorf("%w: %s", ErrOrderRejected, result.Details)
	}
	return &result, nil
}

// CancelOrder отменяет ордер на площадке
func (c *Client) CancelOrder(ctx context.Context, symbol, orderID string) error {
	path := "/v1/orders/" + url.PathEscape(orderID) + "?symbol=" + url.QueryEscape(symbol)
	return retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
	}, c.cfg.Retry)
}

// CancelAllOrders отменяет все ордера аккаунта
func (c *Client) CancelAllOrders(ctx context.Context, accountID int) error {
	path := "/v1/orders?account_id=" + strconv.Itoa(accountID)
	return retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
	}, c.cfg.Retry)
}

// GetPositions возвращает открытые позиции аккаунта
func (c *Client) GetPositions(ctx context.Context, accountID int) ([]*models.Position, error) {
	path := "/v1/positions?account_id=" + strconv.Itoa(accountID)
	var positions []*models.Position
	err := retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, path, nil, &positions)
	}, c.cfg.Retry)
	if err != nil {
		return nil, err
	}
	return positions, nil
}

// FetchAssetIndex запрашивает внутренний индекс актива у venue
//
// Используется как loader AssetIndexCache; прямой вызов в обход
// кэша нужен только самому кэшу.
func (c *Client) FetchAssetIndex(ctx context.Context, symbol string) (int, error) {
	path := "/v1/assets?symbol=" + url.QueryEscape(symbol)
	var asset struct {
		Symbol string `json:"symbol"`
		Index  int    `json:"index"`
	}
	err := retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, path, nil, &asset)
	}, c.cfg.Retry)
	if err != nil {
		return 0, err
	}
	return asset.Index, nil
}

// GetPrice возвращает текущую цену символа
func (c *Client) GetPrice(ctx context.Context, symbol string) (*Ticker, error) {
	path := "/v1/ticker?symbol=" + url.QueryEscape(symbol)
	var ticker Ticker
	err := retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, path, nil, &ticker)
	}, c.cfg.Retry)
	if err != nil {
		return nil, err
	}
	return &ticker, nil
}

// doJSON выполняет один HTTP запрос с JSON телом/ответом
//
// Ошибки сети и 5xx оборачиваются как временные (retry),
// 4xx - как постоянные (без retry).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return retry.Permanent(err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-KEY", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Temporary(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Temporary(err)
	}

	switch {
	case resp.StatusCode >= 500:
		return retry.Temporary(fmt.Errorf("venue %s %s: status %d: %s", method, path, resp.StatusCode, data))
	case resp.StatusCode >= 400:
		return retry.Permanent(fmt.Errorf("venue %s %s: status %d: %s", method, path, resp.StatusCode, data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return retry.Permanent(fmt.Errorf("decode venue response: %w", err))
		}
	}
	return nil
}
