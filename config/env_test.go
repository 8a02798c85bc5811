package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("MAIL_SERVICE", "mailjet")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	env, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8100, env.AppConfig.Port)
	assert.Equal(t, 10*time.Second, env.AppConfig.ShutdownTimeout)
	assert.True(t, env.AppConfig.Secure)
	assert.Equal(t, "https", env.Scheme())
	assert.Equal(t, []string{"beta.gouv.fr", "modernisation.gouv.fr"}, env.AuthConfig.Domains())
	assert.Empty(t, env.AuthConfig.Emails())
	assert.True(t, env.SessionConfig.Refresh)
	assert.Equal(t, 7*24*time.Hour, env.SessionConfig.TTL)
	assert.Equal(t, "https://webconf.numerique.gouv.fr", env.WebconfConfig.BaseURL)
	assert.Equal(t, "WebConf", env.WebconfConfig.RoomPrefix)
	assert.Equal(t, "memory", env.FlashConfig.Store)
	assert.Equal(t, 5*time.Minute, env.FlashConfig.TTL)
	assert.Equal(t, "webconf@beta.gouv.fr", env.MailConfig.Sender)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SECURE", "false")
	t.Setenv("AUTHORIZED_DOMAINS", "Example.org, test.fr ,")
	t.Setenv("AUTHORIZED_EMAILS", "john@example.com")
	t.Setenv("SESSION_REFRESH", "false")
	t.Setenv("ROOM_PREFIX", "Salle")
	t.Setenv("MAIL_DEBUG", "true")

	env, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9000, env.AppConfig.Port)
	assert.Equal(t, "http", env.Scheme())
	assert.Equal(t, []string{"Example.org", "test.fr"}, env.AuthConfig.Domains())
	assert.Equal(t, []string{"john@example.com"}, env.AuthConfig.Emails())
	assert.False(t, env.SessionConfig.Refresh)
	assert.Equal(t, "Salle", env.WebconfConfig.RoomPrefix)
	assert.True(t, env.MailConfig.Debug)
}

func TestLoad_ConfigFile(t *testing.T) {
	setRequired(t)
	dir := t.TempDir()
	yaml := "app:\n  port: 8200\nwebconf:\n  room_prefix: FromFile\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("ROOM_PREFIX", "FromEnv")

	env, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8200, env.AppConfig.Port)
	assert.Equal(t, "FromEnv", env.WebconfConfig.RoomPrefix)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("MAIL_SERVICE", "mailjet")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Env {
		return Env{
			AuthConfig:    AuthConfig{Secret: "x"},
			MailConfig:    MailConfig{Host: "smtp.example.com", Sender: "a@b.fr"},
			WebconfConfig: WebconfConfig{BaseURL: "https://webconf.example"},
			FlashConfig:   FlashConfig{Store: "memory", TTL: time.Minute},
			SessionConfig: SessionConfig{TTL: time.Hour},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Env)
		ok     bool
	}{
		{"valid", func(*Env) {}, true},
		{"no mail transport", func(e *Env) { e.MailConfig.Host = "" }, false},
		{"unknown flash store", func(e *Env) { e.FlashConfig.Store = "disk" }, false},
		{"zero flash ttl", func(e *Env) { e.FlashConfig.TTL = 0 }, false},
		{"zero session ttl", func(e *Env) { e.SessionConfig.TTL = 0 }, false},
		{"redis flash store", func(e *Env) { e.FlashConfig.Store = "redis" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := valid()
			tc.mutate(&env)
			err := env.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,, b "))
}
