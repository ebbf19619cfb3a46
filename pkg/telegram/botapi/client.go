// Package botapi provides a telegram.Client implementation backed by the
// HTTP Bot API.
package botapi

import (
	"bytes"
	"context"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/serrors"
	"emailcleaner/pkg/telegram"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Options configures the Bot API client.
type Options struct {
	// APIURL is the Bot API base URL, e.g. https://api.telegram.org
	APIURL string
	// Token is the bot token
	Token string
	// SendRate is the sustained number of outgoing messages per second
	SendRate float64
}

// NewOptions constructs client Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		APIURL:   cfg.Bot.APIURL,
		Token:    cfg.Bot.Token,
		SendRate: cfg.Bot.SendRate,
	}
}

// APIError is an unsuccessful Bot API response.
type APIError struct {
	Code        int    // Code is the error_code of the response.
	Description string // Description is the human-readable error.
	RetryAfterS int    // RetryAfterS is the flood-wait in seconds, set on 429 responses.
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

// RetryAfter reports how long Telegram asked us to wait before retrying.
func (e *APIError) RetryAfter() time.Duration {
	return time.Duration(e.RetryAfterS) * time.Second
}

// Client talks to the Bot API and fulfills the telegram.Client interface.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	fileURL    string
	limiter    *rate.Limiter
}

// envelope is the common shape of every Bot API response.
type envelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// call executes a Bot API method and decodes its result into out, when non-nil.
func (c *Client) call(ctx context.Context, method string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("could not send %s request: %w", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read %s response body: %w", method, err)
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("could not decode %s response (status %d): %w", method, resp.StatusCode, err)
	}
	if !env.OK {
		apiErr := &APIError{Code: env.ErrorCode, Description: env.Description, RetryAfterS: env.Parameters.RetryAfter}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode
		}
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return serrors.Wrap(serrors.ErrRateLimited, apiErr, "%s rate limited", method)
		case http.StatusUnauthorized:
			return serrors.Wrap(serrors.ErrUnauthorized, apiErr, "%s unauthorized", method)
		case http.StatusBadRequest:
			return serrors.Wrap(serrors.ErrBadRequest, apiErr, "%s rejected", method)
		default:
			return fmt.Errorf("%s failed: %w", method, apiErr)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("could not decode %s result: %w", method, err)
	}

	return nil
}

func (c *Client) jsonRequest(method string, body any) (*http.Request, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("could not marshal %s request: %w", method, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+method, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("could not create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// Updates long polls getUpdates.
func (c *Client) Updates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error) {
	// https://core.telegram.org/bots/api#getupdates
	req, err := c.jsonRequest("getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         int(timeout / time.Second),
		"allowed_updates": []string{"message"},
	})
	if err != nil {
		return nil, err
	}

	var updates []telegram.Update
	if err := c.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

// SendMessage sends a text message, waiting for the outgoing rate limiter first.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	// https://core.telegram.org/bots/api#sendmessage
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("could not wait for send slot: %w", err)
	}

	req, err := c.jsonRequest("sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	return c.call(ctx, "sendMessage", req, nil)
}

// SendDocument uploads doc as multipart/form-data.
func (c *Client) SendDocument(ctx context.Context, chatID int64, doc telegram.Upload) error {
	// https://core.telegram.org/bots/api#senddocument
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("could not wait for send slot: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("could not write chat_id field: %w", err)
	}
	if doc.Caption != "" {
		if err := mw.WriteField("caption", doc.Caption); err != nil {
			return fmt.Errorf("could not write caption field: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("document", doc.Name)
	if err != nil {
		return fmt.Errorf("could not create document part: %w", err)
	}
	if _, err := fw.Write(doc.Data); err != nil {
		return fmt.Errorf("could not write document part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("could not close multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"sendDocument", &body)
	if err != nil {
		return fmt.Errorf("could not create sendDocument request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.call(ctx, "sendDocument", req, nil)
}

// File resolves fileID with getFile and downloads its content.
func (c *Client) File(ctx context.Context, fileID string, limit int64) ([]byte, error) {
	// https://core.telegram.org/bots/api#getfile
	req, err := c.jsonRequest("getFile", map[string]any{"file_id": fileID})
	if err != nil {
		return nil, err
	}

	var file struct {
		FileID   string `json:"file_id"`
		FileSize int64  `json:"file_size"`
		FilePath string `json:"file_path"`
	}
	if err := c.call(ctx, "getFile", req, &file); err != nil {
		return nil, err
	}
	if file.FileSize > limit {
		return nil, serrors.With(serrors.ErrTooLarge, "file is %d bytes, limit is %d", file.FileSize, limit)
	}
	if file.FilePath == "" {
		return nil, serrors.With(serrors.ErrNotFound, "file %s is not available for download", fileID)
	}

	dl, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fileURL+file.FilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create download request: %w", err)
	}

	resp, err := c.httpClient.Do(dl)
	if err != nil {
		return nil, fmt.Errorf("could not download file: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, serrors.With(serrors.ErrTooLarge, "file exceeds %d bytes", limit)
	}

	return data, nil
}

// Ensure Client conforms to the telegram.Client interface at compile time.
var _ telegram.Client = (*Client)(nil)

// New constructs a Client that uses the provided http.Client. Its timeout must
// exceed the long polling timeout passed to Updates.
func New(httpClient *http.Client, opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, serrors.With(serrors.ErrConfiguration, "bot token is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.APIURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, serrors.With(serrors.ErrConfiguration, "invalid bot api url %q", opts.APIURL)
	}
	if opts.SendRate <= 0 {
		return nil, serrors.With(serrors.ErrConfiguration, "send rate must be positive")
	}

	burst := max(1, int(opts.SendRate))

	return &Client{
		httpClient: httpClient,
		baseURL:    base.String() + "/bot" + opts.Token + "/",
		fileURL:    base.String() + "/file/bot" + opts.Token + "/",
		limiter:    rate.NewLimiter(rate.Limit(opts.SendRate), burst),
	}, nil
}
