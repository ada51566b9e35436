package sms

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"
)

// SMSClient talks to the external SMS gateway. Delivery is at-least-once with
// no ordering guarantee; callers treat sends as fire-and-forget.
type SMSClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// SendRequest is the gateway payload
type SendRequest struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	Priority  string `json:"priority,omitempty"`
}

// SendResponse is the gateway acknowledgement
type SendResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
}

// NewSMSClient builds a client from the SMS_GATEWAY_URL / SMS_API_KEY environment.
func NewSMSClient() *SMSClient {
	return &SMSClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: os.Getenv("SMS_GATEWAY_URL"),
		apiKey:  os.Getenv("SMS_API_KEY"),
	}
}

// Send posts one message to the gateway.
func (c *SMSClient) Send(req SendRequest) (*SendResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/v1/messages/", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("SMS gateway returned non-OK status: " + resp.Status)
	}

	var apiResp SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	return &apiResp, nil
}
