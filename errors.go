/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: logDate,
	}).Level(level)
}

// drainErrors logs failures that happen after a response has started and
// can no longer be reported to the client.
func drainErrors(errs <-chan error) {
	for err := range errs {
		log.Debug().Err(err).Msg("ERROR: response write failed")
	}
}

type apiResponse struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Messages any    `json:"messages,omitempty"`
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, body apiResponse) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	return w.Write(append(data, '\n'))
}

func writeError(cfg *Config, w http.ResponseWriter, status int, reason string) (int, error) {
	return writeJSON(cfg, w, status, apiResponse{
		Status: "error",
		Error:  reason,
	})
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>html,body{height:100%;margin:0;font-family:sans-serif;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><p>%s</p></body></html>", body))

	return htmlBody.String()
}
