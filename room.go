/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Seednode/moodroom/chat"
	"github.com/Seednode/moodroom/sentiment"
)

const maxSubmissionBytes = 64 << 10

// submission is the body of POST /message. Pointers tell an omitted field
// apart from an empty one.
type submission struct {
	Author    string  `json:"author" validate:"max=64"`
	Text      *string `json:"text" validate:"required,max=4096"`
	Timestamp *int64  `json:"timestamp"`
}

// Room accepts submissions, scores them and hands them to the relay.
type Room struct {
	relay    *chat.Relay
	scorer   sentiment.Scorer
	timeout  time.Duration
	limiter  *rate.Limiter
	validate *validator.Validate
	now      func() time.Time
}

func newRoom(cfg *Config, relay *chat.Relay, scorer sentiment.Scorer) *Room {
	rm := &Room{
		relay:    relay,
		scorer:   scorer,
		timeout:  cfg.scoreTimeout,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}

	if cfg.rateLimit > 0 {
		rm.limiter = rate.NewLimiter(rate.Limit(cfg.rateLimit), cfg.rateBurst)
	}

	return rm
}

// score never fails: errors, panics and timeouts in the scorer all fall
// back to a neutral score and are reported to the operator only.
func (rm *Room) score(ctx context.Context, text string) int {
	ctx, cancel := context.WithTimeout(ctx, rm.timeout)
	defer cancel()

	type result struct {
		score int
		err   error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("scorer panic: %v", p)}
			}
		}()

		s, err := rm.scorer.Score(ctx, text)
		done <- result{score: s, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	if res.err != nil {
		scoringFailures.Inc()

		log.Warn().Err(res.err).Int("length", len(text)).Msg("SCORE: falling back to neutral sentiment")

		return 0
	}

	return res.score
}

func (rm *Room) serveSubmit(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		if rm.limiter != nil && !rm.limiter.Allow() {
			rejectedTotal.WithLabelValues("rate_limited").Inc()

			if _, err := writeError(cfg, w, http.StatusTooManyRequests, "too many messages, slow down"); err != nil {
				errs <- err
			}

			return
		}

		var sub submission

		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmissionBytes)).Decode(&sub); err != nil {
			rejectedTotal.WithLabelValues("malformed").Inc()

			if _, err := writeError(cfg, w, http.StatusBadRequest, "malformed message: "+err.Error()); err != nil {
				errs <- err
			}

			return
		}

		if err := rm.validate.Struct(sub); err != nil {
			rejectedTotal.WithLabelValues("invalid").Inc()

			if _, err := writeError(cfg, w, http.StatusBadRequest, "invalid message: "+err.Error()); err != nil {
				errs <- err
			}

			return
		}

		msg := chat.Message{
			Author:    sub.Author,
			Text:      *sub.Text,
			Timestamp: rm.now().UnixMilli(),
		}
		if sub.Timestamp != nil {
			msg.Timestamp = *sub.Timestamp
		}

		// A submitter that hangs up after sending still gets its message
		// scored, stored and broadcast.
		msg.Sentiment = rm.score(context.WithoutCancel(r.Context()), msg.Text)

		stored, err := rm.relay.Publish(msg)
		if err != nil {
			log.Error().Err(err).Str("remote", realIP(r)).Msg("PUBLISH: message not stored")

			status := http.StatusInternalServerError
			if errors.Is(err, chat.ErrRelayClosed) {
				status = http.StatusServiceUnavailable
			}

			if _, err := writeError(cfg, w, status, "message could not be stored"); err != nil {
				errs <- err
			}

			return
		}

		written, err := writeJSON(cfg, w, http.StatusOK, apiResponse{Status: "success"})
		if err != nil {
			errs <- err

			return
		}

		log.Debug().Msgf("SERVE: Accepted message %d (sentiment %d, %s) from %s in %s",
			stored.Position,
			stored.Sentiment,
			humanize.Bytes(uint64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func (rm *Room) serveSnapshot(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		messages := rm.relay.Snapshot()

		written, err := writeJSON(cfg, w, http.StatusOK, apiResponse{
			Status:   "success",
			Messages: messages,
		})
		if err != nil {
			errs <- err

			return
		}

		log.Debug().Msgf("SERVE: History of %d messages (%s) to %s in %s",
			len(messages),
			humanize.Bytes(uint64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func registerRoom(cfg *Config, rm *Room, mux *httprouter.Router, errs chan<- error) {
	mux.POST(cfg.prefix+"/message", rm.serveSubmit(cfg, errs))

	mux.POST(cfg.prefix+"/messages", rm.serveSnapshot(cfg, errs))
	mux.GET(cfg.prefix+"/messages", rm.serveSnapshot(cfg, errs))

	mux.GET(cfg.prefix+"/ws", serveLive(cfg, rm.relay))
}
