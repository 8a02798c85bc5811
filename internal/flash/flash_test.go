package flash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/pkg/cache"
)

func newMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	c := cache.NewLRUCache(100, time.Minute)
	t.Cleanup(c.Stop)
	return NewMemoryStore(c, time.Minute)
}

func TestMemoryStore_PushPop(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	require.NoError(t, s.Push(ctx, "sid", Message{Kind: KindError, Text: "one"}))
	require.NoError(t, s.Push(ctx, "sid", Message{Kind: KindInfo, Text: "two"}))

	msgs, err := s.Pop(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, []Message{{KindError, "one"}, {KindInfo, "two"}}, msgs)

	msgs, err = s.Pop(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, msgs, "messages are shown once")

	msgs, err = s.Pop(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestDecodeMessages(t *testing.T) {
	msgs, err := decodeMessages([]string{`{"kind":"error","text":"x"}`})
	require.NoError(t, err)
	assert.Equal(t, []Message{{KindError, "x"}}, msgs)

	msgs, err = decodeMessages(nil)
	require.NoError(t, err)
	assert.Nil(t, msgs)

	_, err = decodeMessages([]string{"{"})
	assert.Error(t, err)
	assert.Equal(t, "flash:abc", redisKey("abc"))
}

func TestFlasher_AddThenPop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemoryStore(t)
	f := NewFlasher(store, time.Minute, false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/login", nil)
	f.Add(c, KindError, "first")
	f.Add(c, KindError, "second")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var sid string
	for _, ck := range cookies {
		if ck.Name == constant.FlashCookie {
			sid = ck.Value
		}
	}
	require.NotEmpty(t, sid)

	rec2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(rec2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/login", nil)
	c2.Request.AddCookie(&http.Cookie{Name: constant.FlashCookie, Value: sid})

	msgs := f.Pop(c2)
	assert.Equal(t, []string{"first", "second"}, Texts(msgs, KindError))
	assert.Empty(t, Texts(msgs, KindInfo))
	assert.Empty(t, f.Pop(c2))
}

func TestFlasher_PopWithoutCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := NewFlasher(newMemoryStore(t), time.Minute, false)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/login", nil)
	assert.Nil(t, f.Pop(c))
}
