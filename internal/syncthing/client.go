// Package syncthing talks to a Syncthing instance over its REST API and
// exposes it as a menu of folders with pause toggles.
package syncthing

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"simplemenu/internal/errors"
)

// DefaultBaseURL is used when the configuration carries no API URL.
const DefaultBaseURL = "http://localhost:8384"

// FolderError is one entry of the folder/errors endpoint.
type FolderError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// SystemError is one entry of the system/error endpoint.
type SystemError struct {
	Level   int       `json:"level"`
	Message string    `json:"message"`
	When    time.Time `json:"when"`
}

type deviceConfig struct {
	Paused bool `json:"paused"`
}

type folderConfig struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Paused bool   `json:"paused"`
}

type configDocument struct {
	Devices []deviceConfig `json:"devices"`
	Folders []folderConfig `json:"folders"`
}

// Client is a minimal Syncthing REST client. GET responses are cached for the
// client's lifetime; clients live for one navigation step, so the cache only
// collapses duplicate requests within a single redraw. TLS certificates are
// not verified: local instances use self-signed ones.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu    sync.Mutex
	cache map[string][]byte
}

// NewClient creates a client for the instance at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		cache: make(map[string][]byte),
	}
}

func (c *Client) request(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	url := c.baseURL + "/rest/" + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.NetworkError, "invalid syncthing request").WithDetails(url)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.NetworkError, "syncthing request failed").WithDetails(url)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.NetworkError, "reading syncthing response failed").WithDetails(url)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.New(errors.NetworkError, "syncthing rejected the request").
			WithDetails(url + ": " + resp.Status)
	}
	return data, nil
}

// get performs a cached GET against a REST endpoint.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	c.mu.Lock()
	data, ok := c.cache[endpoint]
	c.mu.Unlock()
	if ok {
		return data, nil
	}

	data, err := c.request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cache[endpoint] = data
	c.mu.Unlock()
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	data, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.NetworkError, "invalid syncthing response").WithDetails(endpoint)
	}
	return nil
}

// Ping reports whether the instance answers. Any failure means unavailable.
func (c *Client) Ping(ctx context.Context) bool {
	var response struct {
		Ping string `json:"ping"`
	}
	if err := c.getJSON(ctx, "system/ping", &response); err != nil {
		return false
	}
	return response.Ping == "pong"
}

func (c *Client) config(ctx context.Context) (configDocument, error) {
	var doc configDocument
	err := c.getJSON(ctx, "config", &doc)
	return doc, err
}

func (c *Client) folderErrors(ctx context.Context, folderID string) ([]FolderError, error) {
	var response struct {
		Errors []FolderError `json:"errors"`
	}
	err := c.getJSON(ctx, "folder/errors?folder="+folderID, &response)
	return response.Errors, err
}

func (c *Client) folderState(ctx context.Context, folderID string) (string, error) {
	var response struct {
		State string `json:"state"`
	}
	err := c.getJSON(ctx, "db/status?folder="+folderID, &response)
	return response.State, err
}

func (c *Client) systemErrors(ctx context.Context) ([]SystemError, error) {
	var response struct {
		Errors []SystemError `json:"errors"`
	}
	err := c.getJSON(ctx, "system/error", &response)
	return response.Errors, err
}

// SystemPause pauses the whole instance.
func (c *Client) SystemPause(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodPost, "system/pause", []byte("{}"))
	return err
}

// SystemResume resumes the whole instance.
func (c *Client) SystemResume(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodPost, "system/resume", []byte("{}"))
	return err
}

// SetFolderPaused patches one folder's paused flag.
func (c *Client) SetFolderPaused(ctx context.Context, folderID string, paused bool) error {
	body := []byte(`{"paused": false}`)
	if paused {
		body = []byte(`{"paused": true}`)
	}
	_, err := c.request(ctx, http.MethodPatch, "config/folders/"+folderID, body)
	return err
}
