package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"

	"github.com/movekit-lab/movekit/types"
)

// DefaultTimeout bounds a single RPC round trip
const DefaultTimeout = 30 * time.Second

// Config wires a JSONRPC client
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	Logger     hclog.Logger
	HTTPClient *http.Client
}

// JSONRPC is the HTTP JSON-RPC 2.0 implementation of ChainClient
type JSONRPC struct {
	endpoint   string
	logger     hclog.Logger
	httpClient *http.Client
	nextID     uint64
}

// NewJSONRPC creates a fullnode client from the config, applying
// defaults for every unset field
func NewJSONRPC(config *Config) *JSONRPC {
	logger := config.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	return &JSONRPC{
		endpoint:   config.Endpoint,
		logger:     logger.Named("chain-client"),
		httpClient: httpClient,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *JSONRPC) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	req := &rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      atomic.AddUint64(&c.nextID, 1),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("rpc call", "method", method, "id", req.ID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, httpResp.StatusCode)
	}

	resp := &rpcResponse{}
	if err := json.Unmarshal(respBody, resp); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", method, err)
	}

	if resp.Error != nil {
		return fmt.Errorf("%s: %w", method, resp.Error)
	}

	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%s: unmarshal result: %w", method, err)
		}
	}

	return nil
}

func (c *JSONRPC) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var price types.Uint64String
	if err := c.call(ctx, "mvk_getReferenceGasPrice", []interface{}{}, &price); err != nil {
		return 0, err
	}

	return uint64(price), nil
}

func (c *JSONRPC) GetCoins(ctx context.Context, owner types.Address, coinType string) ([]CoinInfo, error) {
	var result struct {
		Data []CoinInfo `json:"data"`
	}

	params := []interface{}{owner.String(), coinType}
	if err := c.call(ctx, "mvk_getCoins", params, &result); err != nil {
		return nil, err
	}

	return result.Data, nil
}

func (c *JSONRPC) MultiGetObjects(ctx context.Context, ids []string, opts ObjectQueryOptions) ([]ObjectResult, error) {
	var result []ObjectResult

	params := []interface{}{ids, opts}
	if err := c.call(ctx, "mvk_multiGetObjects", params, &result); err != nil {
		return nil, err
	}

	if len(result) != len(ids) {
		return nil, fmt.Errorf("mvk_multiGetObjects: got %d results for %d ids", len(result), len(ids))
	}

	return result, nil
}

func (c *JSONRPC) GetNormalizedMoveFunction(ctx context.Context, pkg, module, function string) (*NormalizedFunction, error) {
	fn := &NormalizedFunction{}

	params := []interface{}{pkg, module, function}
	if err := c.call(ctx, "mvk_getNormalizedMoveFunction", params, fn); err != nil {
		return nil, err
	}

	return fn, nil
}

func (c *JSONRPC) DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*DryRunResult, error) {
	result := &DryRunResult{}

	params := []interface{}{base64.StdEncoding.EncodeToString(txBytes)}
	if err := c.call(ctx, "mvk_dryRunTransactionBlock", params, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *JSONRPC) GetProtocolConfig(ctx context.Context) (*ProtocolConfig, error) {
	config := &ProtocolConfig{}

	if err := c.call(ctx, "mvk_getProtocolConfig", []interface{}{}, config); err != nil {
		return nil, err
	}

	return config, nil
}

var _ ChainClient = (*JSONRPC)(nil)
