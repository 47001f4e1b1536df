// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"net/http"
	"sync"
	"time"
)

// Timeout gives each request a deadline. The handler's response is buffered
// and only sent if it finishes in time; otherwise the client gets a 503 JSON
// envelope and anything the handler writes afterwards is discarded.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			bw := newBufferedWriter(w.Header())
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(bw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case p := <-panicked:
				// Re-raise on the serving goroutine so Recoverer sees it.
				panic(p)
			case <-done:
				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					bw.flushTo(w)
					return
				}
			case <-ctx.Done():
			}
			bw.abandon()
			WriteAPIError(w, http.StatusServiceUnavailable, "Request timeout")
		})
	}
}

// bufferedWriter collects a handler's response until Timeout decides whether
// to send it.
type bufferedWriter struct {
	mu        sync.Mutex
	header    http.Header
	body      bytes.Buffer
	status    int
	abandoned bool
}

func newBufferedWriter(base http.Header) *bufferedWriter {
	return &bufferedWriter{header: base.Clone()}
}

func (bw *bufferedWriter) Header() http.Header { return bw.header }

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.status == 0 && !bw.abandoned {
		bw.status = code
	}
}

func (bw *bufferedWriter) Write(p []byte) (int, error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.abandoned {
		return 0, http.ErrHandlerTimeout
	}
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	return bw.body.Write(p)
}

func (bw *bufferedWriter) abandon() {
	bw.mu.Lock()
	bw.abandoned = true
	bw.mu.Unlock()
}

func (bw *bufferedWriter) flushTo(w http.ResponseWriter) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	maps.Copy(w.Header(), bw.header)
	status := bw.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(bw.body.Bytes())
}
