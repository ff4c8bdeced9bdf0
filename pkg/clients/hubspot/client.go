package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://api.hubapi.com"

// Contact carries the properties sent when creating a HubSpot contact.
type Contact struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	AccountHolder string
	BasinType     string
	Formule       string
	Distance      string
}

// Properties maps the contact onto HubSpot property names, including the
// portal's custom properties.
func (c Contact) Properties() map[string]string {
	return map[string]string{
		"firstname":           c.FirstName,
		"lastname":            c.LastName,
		"email":               c.Email,
		"phone":               c.Phone,
		"address":             c.Address,
		"titulaire_du_compte": c.AccountHolder,
		"type_de_bassin":      c.BasinType,
		"type_de_formule":     c.Formule,
		"distance":            c.Distance,
	}
}

// SplitFullName returns the first token as the first name and the remaining
// tokens, joined by a space, as the last name.
func SplitFullName(fullName string) (string, string) {
	parts := strings.Split(fullName, " ")
	return parts[0], strings.Join(parts[1:], " ")
}

// Client defines the interface for interacting with the HubSpot CRM API
type Client interface {
	CreateContact(ctx context.Context, contact Contact) (string, error)
}

type clientImpl struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option customises a client.
type Option func(*clientImpl)

// WithBaseURL points the client at another API host.
func WithBaseURL(baseURL string) Option {
	return func(c *clientImpl) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *clientImpl) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new HubSpot client authenticated with a private app token
func NewClient(token string, opts ...Option) Client {
	c := &clientImpl{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *clientImpl) CreateContact(ctx context.Context, contact Contact) (string, error) {
	url := fmt.Sprintf("%s/crm/v3/objects/contacts", c.baseURL)

	payload := map[string]interface{}{
		"properties": contact.Properties(),
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error creating contact: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("error from HubSpot API (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	if response.ID == "" {
		return "", fmt.Errorf("no contact id in HubSpot response")
	}

	return response.ID, nil
}
