package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://fcm.googleapis.com"

var (
	// ErrTokenExchange indicates the token endpoint did not yield a bearer token.
	ErrTokenExchange = errors.New("token exchange failed")
	// ErrDelivery indicates the push gateway could not be reached.
	ErrDelivery = errors.New("push delivery failed")
)

// Message is the FCM HTTP v1 message envelope.
type Message struct {
	Token        string            `json:"token"`
	Notification *Notification     `json:"notification,omitempty"`
	Android      *AndroidConfig    `json:"android,omitempty"`
	APNS         *APNSConfig       `json:"apns,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type AndroidConfig struct {
	Priority string `json:"priority,omitempty"`
}

type APNSConfig struct {
	Payload *APNSPayload `json:"payload,omitempty"`
}

type APNSPayload struct {
	Aps *Aps `json:"aps,omitempty"`
}

type Aps struct {
	Sound string `json:"sound,omitempty"`
	Badge *int   `json:"badge,omitempty"`
}

// SendResult reports the gateway's verdict for one message. OK mirrors the
// HTTP status only; provider error codes inside a 2xx body are not classified.
type SendResult struct {
	OK     bool
	Status int
	Raw    json.RawMessage
}

// Client delivers messages over the FCM HTTP v1 API. Each Send parses the
// credential, signs a fresh assertion and exchanges it for a bearer token;
// nothing is cached between sends.
type Client struct {
	credentialJSON []byte
	endpoint       string
	tokenURI       string
	httpClient     *http.Client
}

// NewClient creates a client for the production FCM endpoints using the
// provided service-account JSON blob.
func NewClient(credentialJSON []byte) *Client {
	return NewClientWithEndpoints(credentialJSON, defaultEndpoint, "")
}

// NewClientWithEndpoints creates a client against a specific gateway base URL
// and, when tokenURI is non-empty, a specific token endpoint.
func NewClientWithEndpoints(credentialJSON []byte, endpoint, tokenURI string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		credentialJSON: credentialJSON,
		endpoint:       strings.TrimRight(endpoint, "/"),
		tokenURI:       tokenURI,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Send pushes one message to the device named by msg.Token. It returns a
// SendResult for any HTTP response from the gateway, including rejections;
// an error is returned only when the credential, signing, token exchange or
// transport fails.
func (c *Client) Send(ctx context.Context, msg *Message) (*SendResult, error) {
	sa, err := ParseServiceAccount(c.credentialJSON)
	if err != nil {
		return nil, err
	}
	if c.tokenURI != "" {
		sa.TokenURI = c.tokenURI
	}

	assertion, err := SignAssertion(sa, time.Now())
	if err != nil {
		return nil, err
	}

	accessToken, err := c.exchangeToken(ctx, assertion, sa.TokenURI)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(struct {
		Message *Message `json:"message"`
	}{Message: msg})
	if err != nil {
		return nil, fmt.Errorf("%w: encode message: %v", ErrDelivery, err)
	}

	sendURL := fmt.Sprintf("%s/v1/projects/%s/messages:send", c.endpoint, sa.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrDelivery, err)
	}

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		log.Printf("[FCM] Gateway rejected message (status %d): %s", resp.StatusCode, string(body))
	}
	return &SendResult{OK: ok, Status: resp.StatusCode, Raw: rawJSON(body)}, nil
}

// exchangeToken trades the signed assertion for a bearer token via the
// OAuth2 JWT-bearer grant.
func (c *Client) exchangeToken(ctx context.Context, assertion, tokenURI string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrTokenExchange, err)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil || token.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in response: %s", ErrTokenExchange, string(body))
	}
	return token.AccessToken, nil
}

// rawJSON passes body through when it is valid JSON and quotes it into a
// JSON string otherwise, so the result is always safe to embed in a response.
func rawJSON(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}
