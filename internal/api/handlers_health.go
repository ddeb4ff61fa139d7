// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/volunteerhub/internal/logging"
)

// pingTimeout bounds the storage check behind /ping.
const pingTimeout = 2 * time.Second

// HealthStatus is the body of /ping.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Ping reports 200 when storage answers a ping and 503 otherwise. It is
// used as the container health check.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.CtxErr(r.Context(), err).Msg("Storage ping failed")
		NewResponseWriter(w, r).ServiceUnavailable("storage unavailable")
		return
	}
	WriteSuccess(w, r, HealthStatus{
		Status:            "ok",
		DatabaseConnected: true,
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}
