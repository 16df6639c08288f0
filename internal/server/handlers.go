package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/nmurali/pixvault/internal/auth"
	"github.com/nmurali/pixvault/internal/errs"
	"github.com/nmurali/pixvault/internal/gallery"
)

type loginRequest struct {
	PIN string `json:"pin"`
}

// decisionPayload is the JSON form of a gate decision. Auth outcomes are
// values, not errors — the payload tells the client which message to show.
type decisionPayload struct {
	Decision          string `json:"decision"`
	AttemptsRemaining int    `json:"attempts_remaining,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

type browseResponse struct {
	Prefix      string                `json:"prefix"`
	Breadcrumbs []gallery.Crumb       `json:"breadcrumbs"`
	Folders     []gallery.FolderEntry `json:"folders"`
	Images      []gallery.ImageEntry  `json:"images"`
	Page        int                   `json:"page"`
	PerPage     int                   `json:"per_page"`
	TotalPages  int                   `json:"total_pages"`
	TotalImages int                   `json:"total_images"`
	Truncated   bool                  `json:"truncated,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeDecision(w http.ResponseWriter, d auth.Decision) {
	status := http.StatusUnauthorized
	if d.Allow() {
		status = http.StatusOK
	}
	writeJSON(w, status, decisionPayload{
		Decision:          d.Kind.String(),
		AttemptsRemaining: d.AttemptsRemaining,
		RetryAfterSeconds: int(d.RetryAfter.Seconds()),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed login body"})
		return
	}

	token, sess := s.session(r)
	sess, decision := s.gate.Check(sess, s.clock(), &req.PIN)
	s.sessions.Put(token, sess)
	s.setSessionCookie(w, token)

	writeDecision(w, decision)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, sess := s.session(r)
	s.sessions.Put(token, s.gate.Logout(sess))
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prefix := q.Get("prefix")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	perPage := intParam(q.Get("per_page"), s.cfg.ImagesPerPage)
	if perPage < minPerPage {
		perPage = minPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	ctx := r.Context()
	folders := s.svc.ListFolders(ctx, s.cfg.Bucket, prefix)
	images, truncated := s.svc.ListImages(ctx, s.cfg.Bucket, prefix)

	page := gallery.ClampPage(intParam(q.Get("page"), 0), len(images), perPage)
	slice, total := gallery.Paginate(images, page, perPage)

	writeJSON(w, http.StatusOK, browseResponse{
		Prefix:      prefix,
		Breadcrumbs: gallery.Breadcrumbs(prefix),
		Folders:     folders,
		Images:      slice,
		Page:        page,
		PerPage:     perPage,
		TotalPages:  gallery.TotalPages(total, perPage),
		TotalImages: total,
		Truncated:   truncated,
	})
}

func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := q.Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing key"})
		return
	}

	variant := gallery.VariantPreview
	if v := q.Get("variant"); v != "" {
		parsed, err := gallery.ParseVariant(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		variant = parsed
	}

	raw, err := s.svc.Thumbnail(r.Context(), s.cfg.Bucket, key, variant)
	if err != nil {
		// Fail open to a placeholder: one corrupt object must never
		// block the rest of the page.
		s.log.WarnWith("thumbnail unavailable", err, map[string]interface{}{
			"key":     key,
			"variant": string(variant),
		})
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"placeholder": true,
			"key":         key,
		})
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(raw) //nolint:errcheck
}

// handleDownload streams the raw object — full fidelity, bypassing the
// thumbnail cache.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing key"})
		return
	}

	rc, err := s.store.Get(r.Context(), s.cfg.Bucket, key)
	if err != nil {
		status := http.StatusBadGateway
		if errs.IsNotFound(err) {
			status = http.StatusNotFound
		}
		s.log.WarnWith("download failed", err, map[string]interface{}{"key": key})
		writeJSON(w, status, map[string]string{"error": "download failed"})
		return
	}
	defer rc.Close()

	filename := key
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		filename = key[i+1:]
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	io.Copy(w, rc) //nolint:errcheck
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
