// Package navguard keeps participants from working on a stale page restored
// from the browser's back/forward cache: such a page is reloaded so the
// server's round timing applies again.
package navguard

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// TimestampParam is the cache-busting query parameter.
	TimestampParam = "_ts"

	navBackForward = "back_forward"
)

// PageShow is what the browser reports on a pageshow event.
type PageShow struct {
	Persisted      bool
	NavigationType string
}

// ShouldReload reports whether a shown page was restored rather than loaded.
func ShouldReload(ev PageShow) bool {
	return ev.Persisted || ev.NavigationType == navBackForward
}

// ReloadURL returns u with every _ts parameter replaced by one carrying now
// in unix milliseconds. u is not modified.
func ReloadURL(u *url.URL, now time.Time) *url.URL {
	out := *u
	q := out.Query()
	q.Del(TimestampParam)
	q.Add(TimestampParam, strconv.FormatInt(now.UnixMilli(), 10))
	out.RawQuery = q.Encode()
	return &out
}

// Middleware marks responses as not cacheable so browsers do not keep the
// page in the back/forward cache. A page that is restored anyway is reloaded
// by Script.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// Script is the client half of the guard, embedded in every page. It mirrors
// ShouldReload and ReloadURL.
const Script template.JS = `(function () {
  'use strict';
  function shouldReload(ev) {
    if (ev.persisted) { return true; }
    if (window.performance && performance.getEntriesByType) {
      var nav = performance.getEntriesByType('navigation');
      if (nav && nav.length > 0 && nav[0].type === 'back_forward') { return true; }
    }
    return false;
  }
  window.addEventListener('pageshow', function (ev) {
    if (!shouldReload(ev)) { return; }
    var url = new URL(window.location.href);
    url.searchParams.delete('_ts');
    url.searchParams.append('_ts', Date.now().toString());
    window.location.replace(url.toString());
  });
})();`
