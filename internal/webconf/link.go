// Package webconf builds login links to webconference rooms and resolves rooms to the
// external conferencing service.
package webconf

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/duccv/webconf-gate/config"
	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/internal/model"
)

const (
	roomMin = 100000
	roomMax = 999999

	// RoomLinkTTL is the validity of a link that opens a room.
	RoomLinkTTL = 24 * time.Hour
	// SimpleLinkTTL is the validity of a plain login link.
	SimpleLinkTTL = time.Hour
)

// TokenIssuer is the part of token.Issuer the builder needs.
type TokenIssuer interface {
	Issue(identity string, purpose model.TokenPurpose, ttl time.Duration) (string, error)
}

// NewRoomName returns prefix followed by a random integer in [100000, 999999).
// Rooms are not tracked, so two requests may draw the same name.
func NewRoomName(prefix string) string {
	return prefix + fmt.Sprint(roomMin+rand.IntN(roomMax-roomMin))
}

// LinkBuilder composes the links sent in a login email.
type LinkBuilder struct {
	issuer     TokenIssuer
	cfg        config.WebconfConfig
	roomNameFn func(prefix string) string
}

func NewLinkBuilder(issuer TokenIssuer, cfg config.WebconfConfig) *LinkBuilder {
	return &LinkBuilder{
		issuer:     issuer,
		cfg:        cfg,
		roomNameFn: NewRoomName,
	}
}

// TTL is the validity of the login token embedded in built links.
func (b *LinkBuilder) TTL() time.Duration {
	if b.cfg.Rooms {
		return RoomLinkTTL
	}
	return SimpleLinkTTL
}

// Build issues a login token for email and embeds it in a personal link rooted at baseURL.
// With rooms enabled it also draws a room and returns the credential-free shareable link.
func (b *LinkBuilder) Build(email, baseURL string) (*model.LoginLinks, error) {
	tok, err := b.issuer.Issue(email, model.PurposeLogin, b.TTL())
	if err != nil {
		return nil, fmt.Errorf("issue login token: %w", err)
	}

	base := strings.TrimRight(baseURL, "/")
	query := "?" + constant.TokenQueryParam + "=" + url.QueryEscape(tok)

	if !b.cfg.Rooms {
		return &model.LoginLinks{
			PersonalLink: base + "/webconf" + query,
		}, nil
	}

	room := b.roomNameFn(b.cfg.RoomPrefix)
	return &model.LoginLinks{
		Room:          room,
		PersonalLink:  base + "/webconf/" + url.PathEscape(room) + query,
		ShareableLink: strings.TrimRight(b.cfg.BaseURL, "/") + "/" + url.PathEscape(room),
	}, nil
}
