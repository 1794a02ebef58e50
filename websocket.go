/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"github.com/Seednode/moodroom/chat"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveLive streams the room to one websocket client: the snapshot first,
// then every new message until either side goes away.
func serveLive(cfg *Config, relay *chat.Relay) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug().Err(err).Str("remote", realIP(r)).Msg("LIVE: upgrade failed")
			return
		}

		sub, err := relay.Subscribe(r.Context())
		if err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "room unavailable"),
				time.Now().Add(writeWait))
			_ = conn.Close()
			return
		}

		startTime := time.Now()

		log.Debug().Msgf("LIVE: Subscriber %s joined %s from %s", sub.ID, relay.Topic(), realIP(r))

		go writePump(conn, sub)
		readPump(conn)

		relay.Unsubscribe(sub)
		_ = conn.Close()

		log.Debug().Msgf("LIVE: Subscriber %s left after %s", sub.ID, time.Since(startTime).Round(time.Second))
	}
}

// readPump only watches for the client going away; submissions arrive over
// POST /message.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxFrameSize)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, sub *chat.Subscriber) {
	defer conn.Close()

	for evt := range sub.Events() {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(evt); err != nil {
			return
		}
	}

	// Dropped by the relay or the server is stopping.
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(writeWait))
}
