package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/services"
	"github.com/rachao-basket/scoreboard/utils"
)

type HistoryHandler struct {
	historyService services.HistoryService
}

func NewHistoryHandler(hs services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: hs}
}

func filterFromQuery(r *http.Request) services.HistoryFilter {
	return services.HistoryFilter{
		DateFrom: r.URL.Query().Get("from"),
		DateTo:   r.URL.Query().Get("to"),
		Mode:     models.MatchMode(r.URL.Query().Get("mode")),
		Team:     r.URL.Query().Get("team"),
	}
}

func (h *HistoryHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	dateISO := r.URL.Query().Get("date")
	if dateISO == "" {
		dateISO = utils.TodayISO()
	}
	if !utils.IsValidDateISO(dateISO) {
		badRequestResponse(w, r, errors.New("date must be in YYYY-MM-DD format"))
		return
	}

	matches, err := h.historyService.ListByDate(r.Context(), dateISO)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *HistoryHandler) ListByRange(w http.ResponseWriter, r *http.Request) {
	matches, err := h.historyService.ListByRange(r.Context(), filterFromQuery(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportCSV streams the filtered history as a CSV download.
func (h *HistoryHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	matches, err := h.historyService.ListByRange(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	data, err := h.historyService.ExportCSV(matches)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	filename := fmt.Sprintf("historico-%s_%s.csv", filter.DateFrom, filter.DateTo)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write CSV response", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

// ExportAndUpload pushes the CSV export to object storage and returns its
// public URL, so the link can be shared in the group chat.
func (h *HistoryHandler) ExportAndUpload(w http.ResponseWriter, r *http.Request) {
	url, err := h.historyService.ExportAndUpload(r.Context(), filterFromQuery(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"url": url}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
