package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/service"
	"github.com/wricardo/wandrian/game/session"
)

// Client talks to a running `wandrian serve` over its REST API
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

func (c *Client) Status(ctx context.Context) (*session.Status, error) {
	var st session.Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) World(ctx context.Context) (*engine.Frame, error) {
	var frame engine.Frame
	if err := c.do(ctx, http.MethodGet, "/api/world", nil, &frame); err != nil {
		return nil, err
	}
	return &frame, nil
}

func (c *Client) Steer(ctx context.Context, dir engine.Direction) error {
	return c.do(ctx, http.MethodPost, "/api/steer", map[string]string{"direction": string(dir)}, nil)
}

// TogglePause flips the run between running and paused
func (c *Client) TogglePause(ctx context.Context) (session.State, error) {
	var resp struct {
		State session.State `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/pause", nil, &resp); err != nil {
		return session.Uninitialized, err
	}
	return resp.State, nil
}

// Step advances a paused run by one tick
func (c *Client) Step(ctx context.Context) (*service.StepResult, error) {
	var result service.StepResult
	if err := c.do(ctx, http.MethodPost, "/api/step", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
