// Package supplierclient posts signed supplier inventory payloads to a
// stockwatch webhook endpoint.
package supplierclient

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cebinding "github.com/cloudevents/sdk-go/v2/binding"
	ceevent "github.com/cloudevents/sdk-go/v2/event"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/google/uuid"
)

type Client struct {
	Endpoint   string
	Source     string
	Token      string
	Secret     string
	Timeout    time.Duration
	HTTPClient *http.Client
	// CloudEvents sends deliveries in CloudEvents binary mode instead of plain JSON.
	CloudEvents bool
}

// Delivery is one supplier payload. EventType is optional.
type Delivery struct {
	Body      []byte
	EventType string
}

// Receipt is the accepted-delivery summary returned by the webhook.
type Receipt struct {
	EventID       string            `json:"eventId"`
	Status        string            `json:"status"`
	EventType     string            `json:"eventType"`
	Error         string            `json:"error,omitempty"`
	Notifications []json.RawMessage `json:"notifications"`
	Alerts        []json.RawMessage `json:"alerts"`
}

// Deliver signs and posts a payload to /webhooks/suppliers/<source>.
func (c Client) Deliver(ctx context.Context, delivery Delivery) (Receipt, error) {
	endpoint := strings.TrimSpace(c.Endpoint)
	source := strings.TrimSpace(c.Source)
	token := strings.TrimSpace(c.Token)
	secret := strings.TrimSpace(c.Secret)
	if endpoint == "" || source == "" || token == "" || secret == "" {
		return Receipt{}, fmt.Errorf("endpoint/source/token/secret are required")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	requestURL := strings.TrimRight(endpoint, "/") + "/webhooks/suppliers/" + source
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(delivery.Body))
	if err != nil {
		return Receipt{}, fmt.Errorf("build request: %w", err)
	}
	if c.CloudEvents {
		if err := c.writeCloudEvent(ctx, req, delivery); err != nil {
			return Receipt{}, err
		}
	} else {
		req.Header.Set("Content-Type", "application/json")
		if delivery.EventType != "" {
			req.Header.Set("X-Webhook-Event", delivery.EventType)
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Webhook-Signature", Sign(delivery.Body, secret))

	resp, err := httpClient.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		return Receipt{}, fmt.Errorf("webhook rejected: status=%s body=%s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var receipt Receipt
	if err := json.Unmarshal(payload, &receipt); err != nil {
		return Receipt{}, fmt.Errorf("decode receipt: %w", err)
	}
	return receipt, nil
}

func (c Client) writeCloudEvent(ctx context.Context, req *http.Request, delivery Delivery) error {
	eventType := delivery.EventType
	if eventType == "" {
		eventType = "inventory.updated"
	}
	event := ceevent.New()
	event.SetID(uuid.NewString())
	event.SetSource(c.Source + "/feeds")
	event.SetType("com." + c.Source + "." + eventType)
	event.SetTime(time.Now().UTC())
	if err := event.SetData(ceevent.ApplicationJSON, delivery.Body); err != nil {
		return fmt.Errorf("set cloud event data: %w", err)
	}
	if err := cehttp.WriteRequest(ctx, cebinding.ToMessage(&event), req); err != nil {
		return fmt.Errorf("write cloud event: %w", err)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
