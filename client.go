/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/Seednode/moodroom/chat"
	"github.com/Seednode/moodroom/conversation"
)

const clearScreen = "\x1b[H\x1b[2J"

var httpClient = &http.Client{Timeout: timeout}

// endpoint joins path onto the server base URL, switching to the websocket
// scheme when asked.
func endpoint(server, path string, live bool) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", server, err)
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("invalid server URL %q: scheme must be http or https", server)
	}

	if live {
		if u.Scheme == "https" {
			u.Scheme = "wss"
		} else {
			u.Scheme = "ws"
		}
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + path

	return u.String(), nil
}

func postMessage(ctx context.Context, cfg *Config, text string) error {
	target, err := endpoint(cfg.server, "/message", false)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()

	body, err := json.Marshal(submission{
		Author:    cfg.name,
		Text:      &text,
		Timestamp: &now,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	var ack apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("read acknowledgment (%s): %w", resp.Status, err)
	}

	if resp.StatusCode != http.StatusOK || ack.Status != "success" {
		return fmt.Errorf("server rejected message (%s): %s", resp.Status, ack.Error)
	}

	return nil
}

func renderWidth(cfg *Config, out io.Writer) int {
	if cfg.width > 0 {
		return cfg.width
	}

	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}

	return 80
}

func redraw(cfg *Config, out io.Writer, tl *conversation.Timeline) {
	blocks := conversation.Group(tl.Messages(), cfg.name)

	fmt.Fprint(out, clearScreen, conversation.Render(blocks, renderWidth(cfg, out)), "\n")
}

// watchRoom subscribes to the live channel, redraws the conversation on
// every change and posts each non-empty line read from in.
func watchRoom(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	target, err := endpoint(cfg.server, "/ws", true)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", target, err)
	}
	defer conn.Close()

	events := make(chan chat.Event)
	readErr := make(chan error, 1)

	go func() {
		defer close(events)

		for {
			var evt chat.Event
			if err := conn.ReadJSON(&evt); err != nil {
				readErr <- err
				return
			}

			select {
			case events <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if err := postMessage(ctx, cfg, line); err != nil {
				log.Warn().Err(err).Msg("SEND: message not delivered")
			}
		}
	}()

	tl := conversation.NewTimeline()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))

			return nil

		case evt, ok := <-events:
			if !ok {
				var err error
				select {
				case err = <-readErr:
				default:
				}

				if err == nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}

				return fmt.Errorf("live channel closed: %w", err)
			}

			if tl.Apply(evt) {
				redraw(cfg, out, tl)
			}
		}
	}
}
