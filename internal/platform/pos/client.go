package pos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

const defaultTokenTTL = 50 * time.Minute

// Client talks to the venue's point-of-sale reporting API. Read-only from
// the core's point of view: it answers "how many guests came through
// today" for the ops dashboard. One Client per POS connection, carrying
// its own token cache.
type Client struct {
	log     *logger.Logger
	http    *http.Client
	baseURL string
	apiKey  string
	tokens  *TokenCache
}

func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	c := &Client{
		log:     log.With("client", "POSClient"),
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
	c.tokens = NewTokenCache(defaultTokenTTL, c.fetchToken)
	return c
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/auth/access_token?user_id=%s", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pos auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pos auth: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("pos auth: empty token")
	}
	return token, nil
}

// GuestsToday returns the guest count the POS recorded today for the
// organization. Used for the scan-index dashboard metric; a POS outage is
// reported as an error, the dashboard degrades rather than the request
// failing.
func (c *Client) GuestsToday(ctx context.Context, organizationID string) (int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, err
	}

	endpoint := fmt.Sprintf("%s/reports/guests_today?organization=%s", c.baseURL, url.QueryEscape(organizationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pos guests_today: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate()
		return 0, fmt.Errorf("pos guests_today: token rejected")
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pos guests_today: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Guests int `json:"guests"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("pos guests_today: decode: %w", err)
	}
	return out.Guests, nil
}
