// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okizeme/catalogus/internal/middleware"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
}

// NewRouter creates a router over the handler set.
func NewRouter(h *Handler, cfg *MiddlewareConfig) *Router {
	return &Router{
		handler: h,
		mw:      NewChiMiddleware(cfg),
	}
}

// Setup builds the Chi route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.mw.CORS()) // global so OPTIONS preflight is always handled

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rt.mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(rt.mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", rt.handler.Catalog)
	})

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(rt.mw.RateLimitBrowse())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/", rt.handler.SessionCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", rt.handler.SessionStatus)
			r.Put("/query", rt.handler.SessionQuery)
			r.Post("/more", rt.handler.SessionMore)
			r.Get("/results", rt.handler.SessionResults)
			r.Get("/shorts", rt.handler.SessionShorts)
			r.Delete("/", rt.handler.SessionDelete)
		})
	})

	r.Route("/api/v1/favorites", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.With(rt.mw.RateLimit()).Get("/", rt.handler.FavoritesList)
		r.With(rt.mw.RateLimitWrite()).Put("/{id}", rt.handler.FavoritePut)
		r.With(rt.mw.RateLimitWrite()).Delete("/{id}", rt.handler.FavoriteDelete)
	})

	// Observability.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
