package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/leaktracker/internal/http/dto"
	"github.com/cesargomez89/leaktracker/internal/tracker"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"}, h.Logger)
}

// GetTracker fetches (or serves from cache) one view of a tracker sheet.
func (h *Handler) GetTracker(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseTrackerQuery(r.URL.Query())
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	if err := h.Validator.Validate(q); err != nil {
		respondError(w, err, h.Logger)
		return
	}

	res, err := h.Service.Fetch(r.Context(), tracker.Request{
		URL:        q.URL,
		Sheet:      dto.SheetType(q.Sheet),
		Refresh:    q.Refresh,
		ArtistName: q.Artist,
	})
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, res, h.Logger)
}

func (h *Handler) ListTrackers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, list, h.Logger)
}

func (h *Handler) GetCachedTracker(w http.ResponseWriter, r *http.Request) {
	q := dto.ParseViewQuery(chi.URLParam(r, "docID"), r.URL.Query())
	if err := h.Validator.Validate(q); err != nil {
		respondError(w, err, h.Logger)
		return
	}
	res, err := h.Service.Get(r.Context(), q.DocID, dto.SheetType(q.Sheet))
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, res, h.Logger)
}

func (h *Handler) SearchTracker(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseSearchQuery(chi.URLParam(r, "docID"), r.URL.Query())
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	if err := h.Validator.Validate(q); err != nil {
		respondError(w, err, h.Logger)
		return
	}
	res, err := h.Service.SearchTracks(r.Context(), q.DocID, q.Q, q.Limit)
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, res, h.Logger)
}

func (h *Handler) TrackerHistory(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseHistoryQuery(chi.URLParam(r, "docID"), r.URL.Query())
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	if err := h.Validator.Validate(q); err != nil {
		respondError(w, err, h.Logger)
		return
	}
	history, err := h.Service.FetchHistory(r.Context(), q.DocID, q.Limit)
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, history, h.Logger)
}

func (h *Handler) ListCache(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.CacheEntries(r.Context())
	if err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, entries, h.Logger)
}

func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := h.Service.Invalidate(r.Context(), docID); err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, map[string]string{"docId": docID}, h.Logger)
}

func (h *Handler) ForgetTracker(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := h.Service.Forget(r.Context(), docID); err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, map[string]string{"docId": docID}, h.Logger)
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ClearCache(r.Context()); err != nil {
		respondError(w, err, h.Logger)
		return
	}
	respondOK(w, map[string]bool{"cleared": true}, h.Logger)
}
