package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/giftmatch/internal/logging"
	"github.com/HammerMeetNail/giftmatch/internal/services"
)

type SuggestionHandler struct {
	suggestionService services.SuggestionServiceInterface
}

func NewSuggestionHandler(suggestionService services.SuggestionServiceInterface) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// queryNames maps the recipient, page and limit parameters of one route.
type queryNames struct {
	recipient string
	page      string
	limit     string
}

var (
	suggestionParams = queryNames{recipient: "recipientId", page: "page", limit: "limit"}
	legacyParams     = queryNames{recipient: "destinatarioId", page: "pagina", limit: "limite"}
)

// Get serves GET /api/suggestions?recipientId=&page=&limit=.
func (h *SuggestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, suggestionParams)
}

// GetLegacy serves GET /api/sugestoes-auto?destinatarioId=&pagina=&limite=.
func (h *SuggestionHandler) GetLegacy(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, legacyParams)
}

func (h *SuggestionHandler) serve(w http.ResponseWriter, r *http.Request, names queryNames) {
	req, msg := parseSuggestionRequest(r.URL.Query(), names)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	page, err := h.suggestionService.Suggest(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecipientNotFound):
			writeError(w, http.StatusNotFound, "Recipient not found")
		case errors.Is(err, services.ErrInvalidPage):
			writeError(w, http.StatusBadRequest, "Invalid "+names.page)
		case r.Context().Err() != nil:
			// Client went away; nothing useful to write.
		default:
			logging.FromContext(r.Context()).Error("Error building suggestions", logging.Fields{
				"recipient_id": req.RecipientID.String(),
				"error":        err.Error(),
			})
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// parseSuggestionRequest returns a non-empty message when a parameter is invalid.
func parseSuggestionRequest(q url.Values, names queryNames) (services.SuggestionRequest, string) {
	req := services.SuggestionRequest{Page: 1}

	rawID := strings.TrimSpace(q.Get(names.recipient))
	if rawID == "" {
		return req, names.recipient + " is required"
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return req, "Invalid " + names.recipient
	}
	req.RecipientID = id

	if raw := strings.TrimSpace(q.Get(names.page)); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, "Invalid " + names.page
		}
		req.Page = page
	}

	if raw := strings.TrimSpace(q.Get(names.limit)); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return req, "Invalid " + names.limit
		}
		req.Limit = limit
	}
	return req, ""
}
