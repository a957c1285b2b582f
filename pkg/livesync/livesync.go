// Package livesync is the client's background live-update reader: it holds
// one long-lived GET /events connection open against a sync server,
// decodes the server-sent-event frames described in internal/server/sse,
// and delivers a DataChanged notification for every one it sees. A dropped
// connection, whether from a clean EOF or a socket error, is handled the
// same way: wait a fixed backoff, then reconnect.
package livesync

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// ReconnectDelay is the fixed pause between a dropped connection and the
// next reconnect attempt. A var, not a const, so tests can shrink it.
var ReconnectDelay = 5 * time.Second

// notificationBuffer bounds the channel Reader.Run delivers on: a consumer
// that falls behind loses the oldest pending notification rather than
// stalling the reader.
const notificationBuffer = 16

// DataChanged reports that one bucket changed on the server.
type DataChanged struct {
	Archive bool
}

// Reader holds a single SSE connection to a sync server's /events
// endpoint open for as long as its Run call's context is alive.
type Reader struct {
	baseURL string
	token   string
	client  *http.Client
}

// New builds a Reader bound to baseURL (e.g. "https://sync.example.com")
// and a bearer session token.
func New(baseURL, token string) *Reader {
	return &Reader{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{}, // no timeout: this connection is meant to stay open
	}
}

// NewChannel allocates a bounded notification channel sized for Run.
func NewChannel() chan DataChanged {
	return make(chan DataChanged, notificationBuffer)
}

// Run connects to /events and delivers a DataChanged value on out for
// every data_changed frame it observes, reconnecting after
// ReconnectDelay whenever the connection ends, until ctx is cancelled.
// out is closed before Run returns.
func (r *Reader) Run(ctx context.Context, out chan DataChanged) {
	defer close(out)
	for ctx.Err() == nil {
		r.connectOnce(ctx, out)
		select {
		case <-ctx.Done():
			return
		case <-time.After(ReconnectDelay):
		}
	}
}

func (r *Reader) connectOnce(ctx context.Context, out chan DataChanged) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/events", nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := r.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}
	scanEvents(resp.Body, out)
}

// scanEvents parses the minimal subset of the SSE wire format this
// program produces: "event: <name>" and "data: <payload>" lines
// separated by a blank line. Comment lines (the keep-alive pings) and
// any event name other than data_changed are ignored.
func scanEvents(body io.Reader, out chan DataChanged) {
	scanner := bufio.NewScanner(body)
	var eventName string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if eventName != "data_changed" {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			deliver(out, DataChanged{Archive: data == "archive"})
		case line == "":
			eventName = ""
		}
	}
}

// deliver is non-blocking: when out is full it drops the oldest queued
// notification to make room, so a slow consumer never stalls the reader.
func deliver(out chan DataChanged, ev DataChanged) {
	select {
	case out <- ev:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- ev:
	default:
	}
}
