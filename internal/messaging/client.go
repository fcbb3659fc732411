// Package messaging delivers the monthly summary to a debtor through a
// template-based messaging channel (WhatsApp Cloud API shape).
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fbarbosa/cobrador/internal/config"

	"github.com/sirupsen/logrus"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Client sends template messages through the messaging provider.
type Client struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	template      string
	locale        string
	http          *http.Client
}

// NewClient creates a messaging client bound to one sender phone number and
// one template.
func NewClient(baseURL, phoneNumberID, accessToken, template, locale string) *Client {
	return &Client{
		baseURL:       baseURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		template:      template,
		locale:        locale,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	SubType    string              `json:"sub_type,omitempty"`
	Index      *int                `json:"index,omitempty"`
	Parameters []templateParameter `json:"parameters"`
}

type messagePayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Template         struct {
		Name     string `json:"name"`
		Language struct {
			Code string `json:"code"`
		} `json:"language"`
		Components []templateComponent `json:"components"`
	} `json:"template"`
}

// PreferenceIDFromLink extracts the gateway preference id carried by the
// template's URL button. The template embeds the id, not the full link.
func PreferenceIDFromLink(link string) string {
	if _, id, found := strings.Cut(link, "pref_id="); found {
		return id
	}
	return link
}

// SendTemplate delivers the template to the recipient with the given ordered
// body parameters and the URL-button parameter.
func (c *Client) SendTemplate(ctx context.Context, recipientPhone string, bodyParams []string, buttonParam string) error {
	payload := messagePayload{
		MessagingProduct: "whatsapp",
		To:               recipientPhone,
		Type:             "template",
	}
	payload.Template.Name = c.template
	payload.Template.Language.Code = c.locale

	body := templateComponent{Type: "body"}
	for _, p := range bodyParams {
		body.Parameters = append(body.Parameters, templateParameter{Type: "text", Text: p})
	}

	index := 0
	button := templateComponent{
		Type:       "button",
		SubType:    "url",
		Index:      &index,
		Parameters: []templateParameter{{Type: "text", Text: buttonParam}},
	}
	payload.Template.Components = []templateComponent{body, button}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending template message: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("messaging provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	log.WithFields(logrus.Fields{
		"to":       recipientPhone,
		"template": c.template,
	}).Info("Template message delivered")
	return nil
}
