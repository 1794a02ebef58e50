/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "tls pair", mutate: func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }},
		{name: "cert without key", mutate: func(c *Config) { c.tlsCert = "cert.pem" }, wantErr: "--tls-key"},
		{name: "port zero", mutate: func(c *Config) { c.port = 0 }, wantErr: "invalid port"},
		{name: "port too high", mutate: func(c *Config) { c.port = 65536 }, wantErr: "invalid port"},
		{name: "negative history", mutate: func(c *Config) { c.historyLimit = -1 }, wantErr: "history limit"},
		{name: "empty queue", mutate: func(c *Config) { c.queueSize = 0 }, wantErr: "queue size"},
		{name: "empty client buffer", mutate: func(c *Config) { c.clientBuffer = 0 }, wantErr: "client buffer"},
		{name: "zero score timeout", mutate: func(c *Config) { c.scoreTimeout = 0 }, wantErr: "score timeout"},
		{name: "negative rate", mutate: func(c *Config) { c.rateLimit = -1 }, wantErr: "rate limit"},
		{name: "rate without burst", mutate: func(c *Config) { c.rateLimit, c.rateBurst = 5, 0 }, wantErr: "rate burst"},
		{name: "rate with burst", mutate: func(c *Config) { c.rateLimit, c.rateBurst = 5, 2 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)

			err := cfg.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_Scheme(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestNewCmd_FlagsAndEnvironment(t *testing.T) {
	t.Setenv("MOODROOM_HISTORY_LIMIT", "50")
	t.Setenv("MOODROOM_SCORE_TIMEOUT", "2s")

	cfg := &Config{}
	cmd := newCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{"--port", "9090"}))

	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, 50, cfg.historyLimit)
	assert.Equal(t, 2*time.Second, cfg.scoreTimeout)
	assert.Equal(t, 256, cfg.queueSize)
	assert.NoError(t, cfg.validate())
}

func TestNewCmd_ClientSubcommands(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	watch, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)
	assert.Equal(t, "watch", watch.Name())
	assert.NotNil(t, watch.Flags().Lookup("width"))
	assert.NotNil(t, watch.Flags().Lookup("server"))

	send, _, err := cmd.Find([]string{"send"})
	require.NoError(t, err)
	assert.Equal(t, "send", send.Name())
	assert.NotNil(t, send.Flags().Lookup("name"))
	assert.Equal(t, "http://localhost:8080", cfg.server)
}
