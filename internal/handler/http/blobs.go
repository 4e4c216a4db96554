// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/utils"
)

// putBlob stores the request body verbatim under {id}. The body was
// already size-limited and checksum-verified by verifyChecksum.
func (h *Handler) putBlob(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	subject, _ := utils.GetSubjectFromContext(r.Context())
	id := chi.URLParam(r, "id")

	data, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Str("func", "*Handler.putBlob").Msg("failed to read request body")
		utils.WriteError(w, http.StatusBadRequest, "invalid_body", "failed to read request body")
		return
	}

	if err = h.services.BlobService.Put(r.Context(), subject, id, data); err != nil {
		log.Err(err).Str("func", "*Handler.putBlob").Str("blob_id", id).Msg("error storing blob")
		h.writeError(w, r, err)
		return
	}

	w.Header().Set(utils.ChecksumHeader, utils.Checksum(data))
	w.WriteHeader(http.StatusNoContent)
}

// getBlob returns the stored bytes with their checksum.
func (h *Handler) getBlob(w http.ResponseWriter, r *http.Request) {
	subject, _ := utils.GetSubjectFromContext(r.Context())
	id := chi.URLParam(r, "id")

	data, err := h.services.BlobService.Get(r.Context(), subject, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(utils.ChecksumHeader, utils.Checksum(data))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// headBlob answers 200 when {id} exists and 404 otherwise, without a body.
func (h *Handler) headBlob(w http.ResponseWriter, r *http.Request) {
	subject, _ := utils.GetSubjectFromContext(r.Context())
	id := chi.URLParam(r, "id")

	exists, err := h.services.BlobService.Exists(r.Context(), subject, id)
	if err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// listBlobs returns the caller's blobs whose id starts with ?prefix=.
func (h *Handler) listBlobs(w http.ResponseWriter, r *http.Request) {
	subject, _ := utils.GetSubjectFromContext(r.Context())

	infos, err := h.services.BlobService.List(r.Context(), subject, r.URL.Query().Get("prefix"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, infos, http.StatusOK)
}
