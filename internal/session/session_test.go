// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testValkey starts an in-process Valkey stand-in and returns a client for it.
func testValkey(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// requestWithCookies builds a GET request carrying the cookies set on w.
func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestAddFlashCreatesSession(t *testing.T) {
	mr, client := testValkey(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/post/p1/delete", nil)
	if err := store.AddFlash(ctx, w, req, Flash{Type: FlashError, Message: "boom"}); err != nil {
		t.Fatalf("AddFlash: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected one %s cookie, got %+v", CookieName, cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if cookies[0].Secure {
		t.Error("session cookie should not be Secure when secure=false")
	}

	if !mr.Exists(keyPrefix + cookies[0].Value) {
		t.Error("session key not stored in Valkey")
	}
	if ttl := mr.TTL(keyPrefix + cookies[0].Value); ttl != DefaultTTL {
		t.Errorf("TTL: got %v, want %v", ttl, DefaultTTL)
	}
}

func TestPopFlashes(t *testing.T) {
	_, client := testValkey(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := store.AddFlash(ctx, w, req, Flash{Type: FlashError, Message: "first"}); err != nil {
		t.Fatalf("AddFlash: %v", err)
	}

	// A second flash in a later request reuses the same session.
	req2 := requestWithCookies(w)
	w2 := httptest.NewRecorder()
	if err := store.AddFlash(ctx, w2, req2, Flash{Type: FlashSuccess, Message: "second"}); err != nil {
		t.Fatalf("AddFlash: %v", err)
	}
	if len(w2.Result().Cookies()) != 0 {
		t.Error("existing session should not get a new cookie")
	}

	flashes, err := store.PopFlashes(ctx, requestWithCookies(w))
	if err != nil {
		t.Fatalf("PopFlashes: %v", err)
	}
	if len(flashes) != 2 || flashes[0].Message != "first" || flashes[1].Message != "second" {
		t.Errorf("flashes: got %+v", flashes)
	}

	// Flashes are shown once.
	again, err := store.PopFlashes(ctx, requestWithCookies(w))
	if err != nil {
		t.Fatalf("PopFlashes again: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second pop: got %+v, want none", again)
	}
}

func TestPopFlashesWithoutSession(t *testing.T) {
	_, client := testValkey(t)
	store := NewStore(client, false)

	flashes, err := store.PopFlashes(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || flashes != nil {
		t.Errorf("got %+v, %v; want nil, nil", flashes, err)
	}
}

func TestPopFlashesExpiredSession(t *testing.T) {
	mr, client := testValkey(t)
	store := NewStore(client, true)
	ctx := context.Background()

	w := httptest.NewRecorder()
	if err := store.AddFlash(ctx, w, httptest.NewRequest(http.MethodPost, "/", nil), Flash{Message: "x"}); err != nil {
		t.Fatalf("AddFlash: %v", err)
	}
	if !w.Result().Cookies()[0].Secure {
		t.Error("cookie should be Secure when secure=true")
	}

	mr.FastForward(DefaultTTL + time.Second)

	flashes, err := store.PopFlashes(ctx, requestWithCookies(w))
	if err != nil {
		t.Fatalf("PopFlashes: %v", err)
	}
	if flashes != nil {
		t.Errorf("expired session: got %+v, want nil", flashes)
	}
}

func TestAddFlashAfterExpiryStartsNewSession(t *testing.T) {
	mr, client := testValkey(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	store.AddFlash(ctx, w, httptest.NewRequest(http.MethodPost, "/", nil), Flash{Message: "old"})
	mr.FlushAll()

	w2 := httptest.NewRecorder()
	if err := store.AddFlash(ctx, w2, requestWithCookies(w), Flash{Message: "new"}); err != nil {
		t.Fatalf("AddFlash: %v", err)
	}
	cookies := w2.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a fresh cookie, got %+v", cookies)
	}

	flashes, _ := store.PopFlashes(ctx, requestWithCookies(w2))
	if len(flashes) != 1 || flashes[0].Message != "new" {
		t.Errorf("flashes: got %+v", flashes)
	}
}
