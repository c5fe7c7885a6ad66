package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/HammerMeetNail/giftmatch/internal/services"
)

const maxClickBodyBytes = 8 * 1024

type ClickHandler struct {
	recorder services.ClickRecorder
}

func NewClickHandler(recorder services.ClickRecorder) *ClickHandler {
	return &ClickHandler{recorder: recorder}
}

type RecordClickRequest struct {
	Link string `json:"link"`
}

// Record always answers 204. Bad bodies and failed writes are not the
// client's concern.
func (h *ClickHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordClickRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxClickBodyBytes)).Decode(&req); err == nil && req.Link != "" {
		h.recorder.Record(req.Link)
	}
	w.WriteHeader(http.StatusNoContent)
}
