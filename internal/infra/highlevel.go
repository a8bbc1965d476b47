package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const hlAPIVersion = "2021-07-28"

// CustomField is one entry of the customFields array HighLevel accepts on
// contact upserts.
type CustomField struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// ContactUpsert is the body for POST /contacts/upsert. LocationId is filled
// in by the client.
type ContactUpsert struct {
	Name         string        `json:"name,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Email        string        `json:"email,omitempty"`
	Source       string        `json:"source,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
	LocationID   string        `json:"locationId"`
}

// OpportunityCreate is the body for POST /opportunities/.
type OpportunityCreate struct {
	PipelineID string `json:"pipelineId"`
	StageID    string `json:"pipelineStageId"`
	ContactID  string `json:"contactId"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	AssignedTo string `json:"assignedTo,omitempty"`
	LocationID string `json:"locationId"`
}

// HighLevelClient talks to the HighLevel (LeadConnector) REST API. All calls
// go through the circuit breaker so a degraded CRM fast-fails instead of
// holding webhook requests for the full HTTP timeout.
type HighLevelClient struct {
	baseURL    string
	apiKey     string
	locationID string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

func NewHighLevelClient(baseURL, apiKey, locationID string) *HighLevelClient {
	return &HighLevelClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		locationID: locationID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker:    NewCircuitBreaker(DefaultCBConfig()),
	}
}

// BreakerState exposes the circuit state for the health endpoint.
func (c *HighLevelClient) BreakerState() string {
	return c.breaker.State().String()
}

func (c *HighLevelClient) do(ctx context.Context, method, path string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("highlevel: marshal payload: %w", err)
	}

	var out map[string]any
	err = c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("highlevel: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Version", hlAPIVersion)
		req.Header.Set("Location-Id", c.locationID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("highlevel: unreachable: %w", err)
		}
		defer resp.Body.Close()

		raw, _ := io.ReadAll(resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Error().
				Int("status", resp.StatusCode).
				Str("path", path).
				Str("body", string(raw)).
				Msg("highlevel: API rechazó la solicitud")
			return fmt.Errorf("highlevel: %s devolvió %d", path, resp.StatusCode)
		}

		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &out); err != nil {
				// 2xx with a non-JSON body still counts as success
				out = nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertContact creates or updates a contact and returns its HighLevel id.
// The id lands in a different place depending on whether the call created or
// matched, so several locations are probed.
func (c *HighLevelClient) UpsertContact(ctx context.Context, body ContactUpsert) (string, error) {
	body.LocationID = c.locationID
	out, err := c.do(ctx, http.MethodPost, "/contacts/upsert", body)
	if err != nil {
		return "", err
	}
	if id := extractContactID(out); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("highlevel: upsert sin id de contacto en la respuesta")
}

func extractContactID(out map[string]any) string {
	if out == nil {
		return ""
	}
	if id, ok := out["id"].(string); ok && id != "" {
		return id
	}
	for _, key := range []string{"contact", "data", "result"} {
		if nested, ok := out[key].(map[string]any); ok {
			if id, ok := nested["id"].(string); ok && id != "" {
				return id
			}
		}
	}
	return ""
}

// CreateNote attaches a free-text note to a contact.
func (c *HighLevelClient) CreateNote(ctx context.Context, contactID, contenido string) error {
	_, err := c.do(ctx, http.MethodPost, "/contacts/"+contactID+"/notes", map[string]string{
		"body": contenido,
	})
	return err
}

// CreateOpportunity opens a pipeline entry for a contact.
func (c *HighLevelClient) CreateOpportunity(ctx context.Context, body OpportunityCreate) error {
	body.LocationID = c.locationID
	if body.Status == "" {
		body.Status = "open"
	}
	_, err := c.do(ctx, http.MethodPost, "/opportunities/", body)
	return err
}
