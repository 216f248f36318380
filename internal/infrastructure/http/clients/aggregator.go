package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/linagelabs/txos/internal/domain"
	"github.com/linagelabs/txos/internal/domain/interfaces"
	"github.com/linagelabs/txos/pkg/config"
)

type aggregatorClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     zerolog.Logger
}

// NewAggregatorClient builds the swap-routing capability over the external
// aggregator's HTTP API. Route discovery goes over the wire; swap-step
// emission is local command construction against the transaction value.
func NewAggregatorClient(cfg config.AggregatorConfig, logger zerolog.Logger) interfaces.AggregatorClient {
	return &aggregatorClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryBackoffBase,
		logger:     logger.With().Str("component", "aggregator_client").Logger(),
	}
}

type routeErrorPayload struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type routePathPayload struct {
	Provider string `json:"provider"`
	PoolID   string `json:"pool_id"`
	Target   string `json:"target"`
	From     string `json:"from"`
	To       string `json:"to"`
}

type routePayload struct {
	AmountIn              string             `json:"amount_in"`
	AmountOut             string             `json:"amount_out"`
	InsufficientLiquidity bool               `json:"insufficient_liquidity"`
	Error                 *routeErrorPayload `json:"error"`
	Paths                 []routePathPayload `json:"paths"`
}

type findRouteResponse struct {
	Data *routePayload `json:"data"`
}

func (c *aggregatorClient) FindRoute(ctx context.Context, from, target string, amount uint64, byAmountIn bool) (*domain.SwapRoute, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("target", target)
	query.Set("amount", strconv.FormatUint(amount, 10))
	query.Set("by_amount_in", strconv.FormatBool(byAmountIn))

	endpoint := fmt.Sprintf("%s/find_routes?%s", c.baseURL, query.Encode())

	var response findRouteResponse
	if err := c.makeRequest(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("failed to query aggregator route: %w", err)
	}
	if response.Data == nil {
		return nil, nil
	}
	return c.toSwapRoute(response.Data)
}

func (c *aggregatorClient) toSwapRoute(payload *routePayload) (*domain.SwapRoute, error) {
	route := &domain.SwapRoute{
		InsufficientLiquidity: payload.InsufficientLiquidity,
	}
	if payload.Error != nil {
		route.Error = &domain.RouterError{Code: payload.Error.Code, Message: payload.Error.Msg}
		return route, nil
	}
	if payload.InsufficientLiquidity {
		return route, nil
	}

	amountIn, err := strconv.ParseUint(payload.AmountIn, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid route amount_in %q: %w", payload.AmountIn, err)
	}
	amountOut, err := strconv.ParseUint(payload.AmountOut, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid route amount_out %q: %w", payload.AmountOut, err)
	}
	route.AmountIn = amountIn
	route.AmountOut = amountOut

	route.Paths = make([]domain.SwapPath, 0, len(payload.Paths))
	for _, path := range payload.Paths {
		route.Paths = append(route.Paths, domain.SwapPath{
			Provider: path.Provider,
			PoolID:   path.PoolID,
			Target:   path.Target,
			From:     path.From,
			To:       path.To,
		})
	}
	return route, nil
}

// BuildSwapStep chains the route's hops onto tx, consuming inputCoin and
// returning the output coin of the final hop. The minimum acceptable output
// is amount_out reduced by the slippage tolerance, computed with exact
// decimal arithmetic.
func (c *aggregatorClient) BuildSwapStep(tx *domain.Transaction, route *domain.SwapRoute, inputCoin domain.Argument, slippage float64) (domain.Argument, error) {
	if route == nil || len(route.Paths) == 0 {
		return domain.Argument{}, fmt.Errorf("route has no executable paths")
	}

	minAmountOut := minOutputForSlippage(route.AmountOut, slippage)

	current := inputCoin
	for i, path := range route.Paths {
		arguments := []domain.Argument{
			domain.ObjectArg(path.PoolID),
			current,
		}
		if i == len(route.Paths)-1 {
			arguments = append(arguments, domain.PureArg(strconv.FormatUint(minAmountOut, 10)))
		}
		current = tx.MoveCall(path.Target, []string{path.From, path.To}, arguments)
	}
	return current, nil
}

func minOutputForSlippage(amountOut uint64, slippage float64) uint64 {
	out := decimal.NewFromBigInt(new(big.Int).SetUint64(amountOut), 0)
	tolerance := decimal.NewFromFloat(slippage)
	minOut := out.Mul(decimal.NewFromInt(1).Sub(tolerance)).Floor()
	result := minOut.BigInt()
	if result.Sign() < 0 || !result.IsUint64() {
		return 0
	}
	return result.Uint64()
}

// makeRequest performs a GET with exponential-backoff retries on transport
// and server errors. Client errors are terminal.
func (c *aggregatorClient) makeRequest(ctx context.Context, fullURL string, response interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(1<<(attempt-1))):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			c.logger.Warn().Err(err).Int("attempt", attempt+1).Str("url", fullURL).Msg("Aggregator request failed, retrying")
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", readErr)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if err := json.Unmarshal(body, response); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
			return nil
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(body))
			c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Str("url", fullURL).Msg("Aggregator server error, retrying")
			continue
		}

		return fmt.Errorf("client error (status %d): %s", resp.StatusCode, string(body))
	}

	c.logger.Error().Err(lastErr).Str("url", fullURL).Int("max_retries", c.maxRetries).Msg("Aggregator request failed after all retries")
	return lastErr
}
