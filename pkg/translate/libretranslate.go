package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// maxErrorBodyRunes caps how much of an unexpected response body ends up in an error
const maxErrorBodyRunes = 200

// LibreTranslateClient talks to a LibreTranslate-compatible /translate endpoint
type LibreTranslateClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      *utils.SimpleErrorHandler
	logger     *logger.Logger
}

// Ensure LibreTranslateClient implements Translator interface
var _ interfaces.Translator = (*LibreTranslateClient)(nil)

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText *string `json:"translatedText"`
	Error          string  `json:"error"`
}

// NewLibreTranslateClient creates a client for the service at baseURL
func NewLibreTranslateClient(baseURL, apiKey string, log *logger.Logger) *LibreTranslateClient {
	return &LibreTranslateClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		retry:      utils.NewSimpleErrorHandler(constants.DefaultMaxRetries - 1),
		logger:     log,
	}
}

// WithHTTPClient swaps the underlying HTTP client
func (c *LibreTranslateClient) WithHTTPClient(client *http.Client) *LibreTranslateClient {
	c.httpClient = client
	return c
}

// WithRetry swaps the retry policy
func (c *LibreTranslateClient) WithRetry(handler *utils.SimpleErrorHandler) *LibreTranslateClient {
	c.retry = handler
	return c
}

// Name identifies the backend in logs
func (c *LibreTranslateClient) Name() string {
	return "libretranslate(" + c.baseURL + ")"
}

// Translate sends one chunk of text; blank input returns "" without a request
func (c *LibreTranslateClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	var translated string
	err := c.retry.WithRetryContext(ctx, func() error {
		out, err := c.do(ctx, text, sourceLang, targetLang)
		if err != nil {
			c.logger.Debug("Translation attempt against %s failed: %v", c.baseURL, err)
			return err
		}
		translated = out
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(translated), nil
}

func (c *LibreTranslateClient) do(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", utils.NewTranslationError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", utils.NewTranslationError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", utils.WrapError(ctx.Err(), utils.ErrorTypeTimeout, "translation cancelled")
		}
		return "", utils.NewNetworkError("translation request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", utils.NewNetworkError("failed to read translation response", err)
	}

	var parsed translateResponse
	decodeErr := json.Unmarshal(data, &parsed)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", utils.NewNetworkError(fmt.Sprintf("translation service returned %d: %s", resp.StatusCode, describe(parsed, data)), nil)
	case resp.StatusCode != http.StatusOK:
		return "", utils.NewTranslationError(fmt.Sprintf("translation service returned %d: %s", resp.StatusCode, describe(parsed, data)), nil).
			WithContext("status", resp.StatusCode)
	case decodeErr != nil:
		return "", utils.NewTranslationError("invalid translation response", decodeErr).
			WithContext("body", describe(parsed, data))
	case parsed.Error != "":
		return "", utils.NewTranslationError(parsed.Error, nil)
	case parsed.TranslatedText == nil:
		return "", utils.NewTranslationError("invalid translation response: missing translatedText", nil).
			WithContext("body", describe(parsed, data))
	}

	return *parsed.TranslatedText, nil
}

func describe(parsed translateResponse, raw []byte) string {
	if parsed.Error != "" {
		return parsed.Error
	}
	s := strings.TrimSpace(string(raw))
	if utf8.RuneCountInString(s) > maxErrorBodyRunes {
		s = string([]rune(s)[:maxErrorBodyRunes]) + "..."
	}
	return s
}
