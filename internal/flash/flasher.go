package flash

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/internal/constant"
)

const sidKey = "flashSid"

// Flasher binds a Store to the browser through the flash cookie.
// Store failures are logged and otherwise ignored: a lost flash message never fails a request.
type Flasher struct {
	store  Store
	ttl    time.Duration
	secure bool
}

func NewFlasher(store Store, ttl time.Duration, secure bool) *Flasher {
	return &Flasher{store: store, ttl: ttl, secure: secure}
}

// Add queues a message for the next page rendered for this browser.
func (f *Flasher) Add(c *gin.Context, kind, text string) {
	sid := f.sessionID(c)
	if err := f.store.Push(c.Request.Context(), sid, Message{Kind: kind, Text: text}); err != nil {
		zap.L().Warn("Failed to queue flash message", zap.Error(err), zap.String("kind", kind))
	}
}

// Pop returns and discards the messages queued for this browser.
func (f *Flasher) Pop(c *gin.Context) []Message {
	sid, err := c.Cookie(constant.FlashCookie)
	if err != nil || sid == "" {
		return nil
	}

	msgs, err := f.store.Pop(c.Request.Context(), sid)
	if err != nil {
		zap.L().Warn("Failed to read flash messages", zap.Error(err))
		return nil
	}
	return msgs
}

func (f *Flasher) sessionID(c *gin.Context) string {
	if sid := c.GetString(sidKey); sid != "" {
		return sid
	}
	sid, err := c.Cookie(constant.FlashCookie)
	if err != nil || sid == "" {
		sid = uuid.NewString()
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constant.FlashCookie, sid, int(f.ttl.Seconds()), "/", "", f.secure, true)
	c.Set(sidKey, sid)
	return sid
}

// Texts filters messages of one kind.
func Texts(msgs []Message, kind string) []string {
	var out []string
	for _, m := range msgs {
		if m.Kind == kind {
			out = append(out, m.Text)
		}
	}
	return out
}
