// Package subgraph provides a GraphQL client for the Polymarket positions
// subgraph, the external query that supplies the raw position dataset.
package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// defaultPageSize bounds a single positions query; the subgraph caps page
// sizes at 1000.
const defaultPageSize = 1000

// Client is a GraphQL client for a Goldsky-style subgraph indexer exposing
// marketPosition entities.
type Client struct {
	graphqlURL string
	apiKey     string
	pageSize   int
	httpClient *http.Client
}

// NewClient creates a new positions subgraph client.
//
// graphqlURL is the subgraph endpoint, e.g.
// "https://api.goldsky.com/api/public/.../subgraphs/polymarket/gn".
func NewClient(graphqlURL, apiKey string, pageSize int) *Client {
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	return &Client{
		graphqlURL: graphqlURL,
		apiKey:     strings.TrimSpace(apiKey),
		pageSize:   pageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// graphqlRequest is the standard GraphQL request envelope.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the standard GraphQL response envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchPositions pages through marketPosition entities and returns up to
// limit raw positions (all of them when limit <= 0). Rows come back exactly
// as indexed; zero-investment positions are not filtered here, so the
// pipeline's division-by-zero behavior is the caller's to manage.
func (c *Client) FetchPositions(ctx context.Context, limit int) ([]domain.RawPosition, error) {
	const query = `
		query Positions($first: Int!, $skip: Int!) {
			marketPositions(first: $first, skip: $skip, orderBy: id) {
				netQuantity
				valueSold
				valueBought
				outcomeIndex
				market {
					outcomeTokenPrices
				}
				user {
					id
				}
			}
		}
	`

	var positions []domain.RawPosition
	for skip := 0; ; skip += c.pageSize {
		first := c.pageSize
		if limit > 0 && limit-len(positions) < first {
			first = limit - len(positions)
		}
		if first <= 0 {
			break
		}

		respData, err := c.doQuery(ctx, query, map[string]any{
			"first": first,
			"skip":  skip,
		})
		if err != nil {
			return nil, fmt.Errorf("subgraph: fetch positions: %w", err)
		}

		var result struct {
			MarketPositions []domain.RawPosition `json:"marketPositions"`
		}
		if err := json.Unmarshal(respData, &result); err != nil {
			return nil, fmt.Errorf("subgraph: decode positions: %w", err)
		}

		for _, p := range result.MarketPositions {
			p.User.ID = normalizeUserID(p.User.ID)
			positions = append(positions, p)
		}

		if len(result.MarketPositions) < first {
			break
		}
	}

	return positions, nil
}

// normalizeUserID rewrites hex wallet addresses into their EIP-55
// checksummed form so the same wallet always aggregates under one key.
// Non-address identities pass through untouched.
func normalizeUserID(id string) string {
	if common.IsHexAddress(id) {
		return common.HexToAddress(id).Hex()
	}
	return id
}

// doQuery executes a GraphQL query against the subgraph endpoint and
// returns the raw "data" field from the response.
func (c *Client) doQuery(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	reqBody := graphqlRequest{
		Query:     query,
		Variables: variables,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", gqlResp.Errors[0].Message)
	}

	return gqlResp.Data, nil
}

// Compile-time interface check.
var _ domain.PositionSource = (*Client)(nil)
