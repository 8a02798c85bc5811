package webconf

import (
	"net/url"
	"strings"

	"github.com/duccv/webconf-gate/config"
)

// Dispatcher maps a room to the external conferencing URL. It trusts its caller:
// authorization happens in the access gate, and rooms are never checked against
// issued links.
type Dispatcher struct {
	baseURL     string
	accessToken string
	tokenParam  string
}

func NewDispatcher(cfg config.WebconfConfig) *Dispatcher {
	param := cfg.AccessTokenParam
	if param == "" {
		param = "token"
	}
	return &Dispatcher{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		tokenParam:  param,
	}
}

// ResolveTarget returns base/roomID with the downstream access token appended when one
// is configured. An empty roomID resolves to the service home page.
func (d *Dispatcher) ResolveTarget(roomID string) string {
	if roomID == "" {
		return d.baseURL
	}

	target := d.baseURL + "/" + url.PathEscape(roomID)
	if d.accessToken != "" {
		target += "?" + url.Values{d.tokenParam: {d.accessToken}}.Encode()
	}
	return target
}
