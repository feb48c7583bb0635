package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент WhatsApp Cloud API (graph.facebook.com).
// Используется исключительно для доставки одноразовых кодов.
type Client struct {
	baseURL      string
	accessToken  string
	templateName string
	httpClient   *http.Client
	log          Logger
}

// NewClient создает новый экземпляр клиента WhatsApp Cloud API
func NewClient(accessToken, phoneNumberID, apiVersion, templateName string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:      fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", apiVersion, phoneNumberID),
		accessToken:  accessToken,
		templateName: templateName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendOTPMessage отправляет одноразовый код template-сообщением.
// Возвращает ID сообщения Cloud API.
func (c *Client) SendOTPMessage(ctx context.Context, phone, code string) (string, error) {
	if c.accessToken == "" || c.baseURL == "" {
		return "", ErrNotConfigured
	}

	if !domain.E164Regex.MatchString(phone) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPhone, maskPhone(phone))
	}

	payload := templateMessage{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "template",
		Template: template{
			Name:     c.templateName,
			Language: language{Code: "en"},
			Components: []component{
				{
					Type:       "body",
					Parameters: []parameter{{Type: "text", Text: code}},
				},
				{
					// Кнопка "копировать код" в шаблоне авторизации
					Type:       "button",
					SubType:    "url",
					Index:      "0",
					Parameters: []parameter{{Type: "text", Text: code}},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)

		var apiErr errorResponse
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("%w: status %d, code %d: %s",
				ErrInvalidResponse, resp.StatusCode, apiErr.Error.Code, apiErr.Error.Message)
		}
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if len(result.Messages) == 0 {
		return "", fmt.Errorf("%w: empty messages in response", ErrInvalidResponse)
	}

	c.log.Info("WhatsApp OTP sent to %s, message_id=%s", maskPhone(phone), result.Messages[0].ID)
	return result.Messages[0].ID, nil
}

// maskPhone маскирует номер для логов: +91******3210
func maskPhone(phone string) string {
	if len(phone) < 8 {
		return phone
	}
	masked := phone[:3]
	for i := 3; i < len(phone)-4; i++ {
		masked += "*"
	}
	return masked + phone[len(phone)-4:]
}
