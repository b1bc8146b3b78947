// Package source talks to the remote catalog data source over HTTP.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
)

const (
	DefaultBaseURL = "http://localhost:3500"
	catalogPath    = "/catalog"
)

// Catalog is the catalog data source collaborator
type Catalog interface {
	List(ctx context.Context) ([]dal.Vehicle, error)
	Create(ctx context.Context, v dal.Vehicle) (dal.Vehicle, error)
	Delete(ctx context.Context, id int) error
}

// Config holds the connection settings of the catalog data source
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements Catalog over the data source's JSON REST API
type Client struct {
	baseURL    string
	httpClient *resty.Client
}

// NewClient returns a client for the data source at cfg.BaseURL.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// List fetches the full catalog.
func (c *Client) List(ctx context.Context) ([]dal.Vehicle, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.baseURL + catalogPath)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	if resp.IsError() {
		return nil, &FetchError{Status: resp.StatusCode(), Err: fmt.Errorf("%w: %s", ErrStatus, resp.Status())}
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(resp.String()), &records); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode catalog: %w", err)}
	}

	vehicles := make([]dal.Vehicle, 0, len(records))
	for i, raw := range records {
		var v dal.Vehicle
		if err := json.Unmarshal(raw, &v); err != nil {
			log.WithError(err).WithField("index", i).Warn("Skipping malformed catalog record")
			continue
		}
		vehicles = append(vehicles, v)
	}

	log.Debugf("Fetched %d vehicles from %s", len(vehicles), c.baseURL)
	return vehicles, nil
}

// Create posts a new vehicle and returns the record created by the data source.
func (c *Client) Create(ctx context.Context, v dal.Vehicle) (dal.Vehicle, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return dal.Vehicle{}, &SubmitError{Op: "create", Err: err}
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.baseURL + catalogPath)
	if err != nil {
		return dal.Vehicle{}, &SubmitError{Op: "create", Err: err}
	}
	if resp.IsError() {
		return dal.Vehicle{}, &SubmitError{Op: "create", Status: resp.StatusCode(), Err: fmt.Errorf("%w: %s", ErrStatus, resp.Status())}
	}

	created := v
	if raw := strings.TrimSpace(resp.String()); raw != "" {
		if err := json.Unmarshal([]byte(raw), &created); err != nil {
			return dal.Vehicle{}, &SubmitError{Op: "create", Err: fmt.Errorf("decode created vehicle: %w", err)}
		}
	}

	log.Infof("Created vehicle %d (%s)", created.ID, created.Name)
	return created, nil
}

// Delete removes the vehicle with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete(c.baseURL + catalogPath + "/" + strconv.Itoa(id))
	if err != nil {
		return &SubmitError{Op: "delete", Err: err}
	}
	if resp.IsError() {
		return &SubmitError{Op: "delete", Status: resp.StatusCode(), Err: fmt.Errorf("%w: %s", ErrStatus, resp.Status())}
	}

	log.Infof("Deleted vehicle %d", id)
	return nil
}
