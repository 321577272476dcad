package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// Client consults a remote constraint-checking service over HTTP. The
// service exposes POST /validate and POST /candidates taking the grid plus
// board dimensions as JSON. Any transport or server failure is logged once
// at warn level and reported as "no opinion".
type Client struct {
	url    *url.URL
	client *http.Client
}

// NewClient creates a validator client for the given base URL.
// A nil http.Client gets a short default timeout; validator round-trips sit
// on the solve path and must not stall it.
func NewClient(rawURL string, client *http.Client) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid validator url: %w", err)
	}

	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}

	return &Client{url: u, client: client}, nil
}

// Available reports whether the client is configured with an endpoint.
func (c *Client) Available() bool {
	return c != nil && c.url != nil
}

type validateRequest struct {
	Grid [][]int `json:"grid"`
	N    int     `json:"n"`
	Side int     `json:"side"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

type candidatesRequest struct {
	Grid [][]int `json:"grid"`
	Row  int     `json:"row"`
	Col  int     `json:"col"`
	N    int     `json:"n"`
	Side int     `json:"side"`
}

type candidatesResponse struct {
	Candidates []int `json:"candidates"`
}

// ValidateBoard asks the service whether the grid satisfies the Sudoku
// constraints. Failures degrade to "no objection".
func (c *Client) ValidateBoard(ctx context.Context, grid [][]int, n, side int) bool {
	var resp validateResponse
	if err := c.post(ctx, "/validate", validateRequest{Grid: grid, N: n, Side: side}, &resp); err != nil {
		log.Warn().Err(err).Msg("external validator unreachable, skipping board check")
		return true
	}
	return resp.Valid
}

// Candidates asks the service for the candidate set of one cell. Failures
// degrade to nil, meaning no opinion.
func (c *Client) Candidates(ctx context.Context, grid [][]int, row, col, n, side int) []int {
	var resp candidatesResponse
	req := candidatesRequest{Grid: grid, Row: row, Col: col, N: n, Side: side}
	if err := c.post(ctx, "/candidates", req, &resp); err != nil {
		log.Warn().Err(err).Msg("external validator unreachable, skipping candidate check")
		return nil
	}
	return resp.Candidates
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	target := c.url.JoinPath(path).String()
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		resp, _ := io.ReadAll(response.Body)
		return fmt.Errorf("server response status code: %d, body: %s", response.StatusCode, resp)
	}

	if err = json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
