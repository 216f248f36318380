package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/linagelabs/txos/internal/domain"
	"github.com/linagelabs/txos/pkg/config"
)

// SuiClient talks JSON-RPC 2.0 to a Sui fullnode. It implements the ledger
// capability consumed by the application services.
type SuiClient struct {
	rpcURL     string
	httpClient *http.Client
	logger     zerolog.Logger
	requestID  atomic.Int64
}

func NewSuiClient(cfg *config.SuiConfig, logger zerolog.Logger) (*SuiClient, error) {
	rpcURL, err := cfg.RPCURL()
	if err != nil {
		return nil, err
	}
	return &SuiClient{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger.With().Str("component", "sui_rpc_client").Logger(),
	}, nil
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *SuiClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal RPC request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("RPC call %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Str("method", method).
			Int("status_code", resp.StatusCode).
			Str("response_body", string(body)).
			Msg("Sui RPC request failed")
		return fmt.Errorf("RPC call %s failed with status: %s", method, resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse RPC response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("RPC call %s failed: %d %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

type coinPageResult struct {
	Data []struct {
		CoinType     string `json:"coinType"`
		CoinObjectID string `json:"coinObjectId"`
		Balance      string `json:"balance"`
	} `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

func (c *SuiClient) GetCoins(ctx context.Context, owner, coinType string, cursor *string) (*domain.CoinPage, error) {
	var result coinPageResult
	if err := c.call(ctx, "suix_getCoins", []interface{}{owner, coinType, cursor, nil}, &result); err != nil {
		return nil, err
	}

	page := &domain.CoinPage{
		Coins:       make([]domain.CoinRecord, 0, len(result.Data)),
		NextCursor:  result.NextCursor,
		HasNextPage: result.HasNextPage,
	}
	for _, coin := range result.Data {
		balance, err := strconv.ParseUint(coin.Balance, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coin balance %q for object %s: %w", coin.Balance, coin.CoinObjectID, err)
		}
		page.Coins = append(page.Coins, domain.CoinRecord{
			CoinType: coin.CoinType,
			ObjectID: coin.CoinObjectID,
			Balance:  balance,
		})
	}
	return page, nil
}

type objectResult struct {
	Data *domain.ObjectData `json:"data"`
}

func (c *SuiClient) GetObject(ctx context.Context, objectID string) (*domain.ObjectData, error) {
	params := []interface{}{
		objectID,
		map[string]bool{"showType": true, "showContent": true},
	}
	var result objectResult
	if err := c.call(ctx, "sui_getObject", params, &result); err != nil {
		return nil, err
	}
	if result.Data == nil {
		return nil, fmt.Errorf("object %s not found", objectID)
	}
	return result.Data, nil
}

type ownedObjectsResult struct {
	Data        []map[string]interface{} `json:"data"`
	NextCursor  *string                  `json:"nextCursor"`
	HasNextPage bool                     `json:"hasNextPage"`
}

func (c *SuiClient) GetOwnedObjectsByType(ctx context.Context, owner, structType string, cursor *string) (*domain.OwnedObjectPage, error) {
	query := map[string]interface{}{
		"filter":  map[string]interface{}{"StructType": structType},
		"options": map[string]bool{"showType": true, "showContent": true},
	}
	var result ownedObjectsResult
	if err := c.call(ctx, "suix_getOwnedObjects", []interface{}{owner, query, cursor, nil}, &result); err != nil {
		return nil, err
	}
	return &domain.OwnedObjectPage{
		Entries:     result.Data,
		NextCursor:  result.NextCursor,
		HasNextPage: result.HasNextPage,
	}, nil
}

type balanceResult struct {
	TotalBalance string `json:"totalBalance"`
}

func (c *SuiClient) GetBalance(ctx context.Context, owner, coinType string) (uint64, error) {
	var result balanceResult
	if err := c.call(ctx, "suix_getBalance", []interface{}{owner, coinType}, &result); err != nil {
		return 0, err
	}
	balance, err := strconv.ParseUint(result.TotalBalance, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid total balance %q for %s: %w", result.TotalBalance, owner, err)
	}
	return balance, nil
}

type executeResult struct {
	Digest string `json:"digest"`
}

func (c *SuiClient) SubmitTransaction(ctx context.Context, txBytes, signature string) (string, error) {
	params := []interface{}{
		txBytes,
		[]string{signature},
		map[string]bool{"showEffects": true},
		"WaitForLocalExecution",
	}
	var result executeResult
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &result); err != nil {
		return "", err
	}

	c.logger.Info().
		Str("digest", result.Digest).
		Msg("Transaction submitted")
	return result.Digest, nil
}
