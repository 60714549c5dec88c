package clock

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/healthcard/orientation/internal/timeutil"
)

const (
	serverTimePath = "/time"
	todayPath      = "/today"
)

type serverTimeResponse struct {
	ServerInstant *int64 `json:"serverInstant"`
}

type todayResponse struct {
	ReferenceDayStart *int64 `json:"referenceDayStart"`
}

// HTTPAuthority queries a time authority over HTTP. Both endpoints answer
// with epoch milliseconds.
type HTTPAuthority struct {
	client  *http.Client
	baseURL string
}

// NewHTTPAuthority returns an authority rooted at baseURL.
func NewHTTPAuthority(baseURL string, timeout time.Duration) *HTTPAuthority {
	return &HTTPAuthority{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTPAuthority) ServerTime(ctx context.Context) (time.Time, error) {
	var resp serverTimeResponse

	if err := h.get(ctx, serverTimePath, &resp); err != nil {
		return time.Time{}, err
	}

	if resp.ServerInstant == nil {
		return time.Time{}, errAuthorityPayload.Fmt("serverInstant")
	}

	return timeutil.FromMillis(*resp.ServerInstant), nil
}

func (h *HTTPAuthority) ReferenceDayStart(ctx context.Context) (time.Time, error) {
	var resp todayResponse

	if err := h.get(ctx, todayPath, &resp); err != nil {
		return time.Time{}, err
	}

	if resp.ReferenceDayStart == nil {
		return time.Time{}, errAuthorityPayload.Fmt("referenceDayStart")
	}

	return timeutil.FromMillis(*resp.ReferenceDayStart), nil
}

func (h *HTTPAuthority) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, http.NoBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errAuthorityStatus.Fmt(resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
