package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured = errors.New("whatsapp: instance id or token not set")
	ErrNoMessageID   = errors.New("whatsapp: response has no idMessage")
)

type Config struct {
	APIURL     string
	InstanceID string
	Token      string
	// RPS — не больше стольких запросов в секунду к Green-API; 0 — без ограничения.
	RPS float64
}

func (c Config) Configured() bool {
	return c.InstanceID != "" && c.Token != ""
}

// Client — отправка текстовых сообщений через Green-API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

func New(cfg Config, log *slog.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}, nil
}

type sendRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

type sendResponse struct {
	IDMessage string `json:"idMessage"`
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/waInstance%s/sendMessage/%s", c.cfg.APIURL, c.cfg.InstanceID, c.cfg.Token)
}

// Send отправляет text в чат chatID (группа "...@g.us" или личный "...@c.us")
// и возвращает idMessage. Повторов нет.
func (c *Client) Send(ctx context.Context, chatID, text string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("whatsapp rate limit: %w", err)
	}

	body, err := json.Marshal(sendRequest{ChatID: chatID, Message: text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("green-api returned status %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.IDMessage == "" {
		return "", ErrNoMessageID
	}
	if c.log != nil {
		c.log.Debug("whatsapp message sent", "chat_id", chatID, "id_message", out.IDMessage)
	}
	return out.IDMessage, nil
}
