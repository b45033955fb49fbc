package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/attendancestats/internal/config"
	"github.com/attendancestats/internal/datasets"
	"github.com/attendancestats/internal/sites"
	"github.com/attendancestats/internal/statistics"
)

func Handler(
	logger *slog.Logger,
	cfg *config.Config,
	datasetsStore *datasets.Store,
	statisticsService *statistics.Service,
	metricsHandler http.Handler,
) http.HandlerFunc {
	limitUploads := WithMiddlewares(
		WithRateLimit(cfg.UploadRPS, cfg.UploadBurst),
		WithMaxBytes(cfg.UploadMaxBytes),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/getData", handleGetData(logger, cfg))
	mux.HandleFunc("GET /api/sites/{site}/statistics", handleSiteStatistics(logger, cfg, statisticsService))
	mux.HandleFunc("GET /api/sites/{site}/statistics/{year}/evening-slots", handleEveningSlots(logger, cfg, statisticsService))

	mux.HandleFunc("GET /api/uploads", handleListUploads(logger, datasetsStore))
	mux.HandleFunc("POST /api/uploads", limitUploads(handleCreateUpload(logger, datasetsStore, statisticsService)))
	mux.HandleFunc("GET /api/uploads/{id}/statistics", handleUploadStatistics(logger, datasetsStore, statisticsService))
	mux.HandleFunc("DELETE /api/uploads/{id}", handleDeleteUpload(logger, datasetsStore))

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return WithAccessLogs(logger)(mux.ServeHTTP)
}

type errorResponse struct {
	Error  string             `json:"error"`
	Report *statistics.Report `json:"report,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeStatisticsError maps a failed computation to a response. Exports
// without any valid row are reported with their rejections.
func writeStatisticsError(w http.ResponseWriter, logger *slog.Logger, result *statistics.Result, err error) {
	if errors.Is(err, statistics.ErrEmptyInput) && result != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "No valid row",
			Report: &result.Report,
		})
		return
	}
	logger.Error("calculate statistics", "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to calculate statistics")
}

func handleGetData(logger *slog.Logger, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site, err := sites.ParseSite(r.URL.Query().Get("dataset"))
		if err != nil || !site.HasStaticDataset() {
			writeError(w, http.StatusBadRequest, "Invalid dataset")
			return
		}

		content, err := datasets.Static(cfg.DataDir, site, cfg.Period)
		if err != nil {
			logger.Error("read dataset", "site", site, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to read file")
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, content)
	}
}

// siteStatistics reads the pre-stored export of the {site} path value and
// aggregates it. It writes the error response and returns false on failure.
func siteStatistics(
	w http.ResponseWriter,
	r *http.Request,
	logger *slog.Logger,
	cfg *config.Config,
	statisticsService *statistics.Service,
) (sites.Site, *statistics.Result, bool) {
	site, err := sites.ParseSite(r.PathValue("site"))
	if err != nil || !site.HasStaticDataset() {
		writeError(w, http.StatusNotFound, "Unknown site")
		return "", nil, false
	}

	content, err := datasets.Static(cfg.DataDir, site, cfg.Period)
	if err != nil {
		logger.Error("read dataset", "site", site, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return "", nil, false
	}

	result, err := statisticsService.Calculate(r.Context(), site, content)
	if err != nil {
		writeStatisticsError(w, logger, result, err)
		return "", nil, false
	}
	return site, result, true
}

func handleSiteStatistics(
	logger *slog.Logger,
	cfg *config.Config,
	statisticsService *statistics.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, result, ok := siteStatistics(w, r, logger, cfg, statisticsService); ok {
			writeJSON(w, http.StatusOK, result)
		}
	}
}

type eveningSlotsResponse struct {
	Year  int                   `json:"year"`
	From  string                `json:"from,omitempty"`
	To    string                `json:"to,omitempty"`
	Means []statistics.SlotMean `json:"means"`
}

func handleEveningSlots(
	logger *slog.Logger,
	cfg *config.Config,
	statisticsService *statistics.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(r.PathValue("year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
		for _, date := range []string{from, to} {
			if date == "" {
				continue
			}
			if _, err := time.Parse(time.DateOnly, date); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date %q", date))
				return
			}
		}

		site, result, ok := siteStatistics(w, r, logger, cfg, statisticsService)
		if !ok {
			return
		}
		stats, ok := result.Statistics[year]
		if !ok {
			writeError(w, http.StatusNotFound, "No statistics for this year")
			return
		}

		writeJSON(w, http.StatusOK, eveningSlotsResponse{
			Year:  year,
			From:  from,
			To:    to,
			Means: stats.EveningSlotMeans(from, to, statisticsService.Rules(site)),
		})
	}
}

func handleListUploads(logger *slog.Logger, datasetsStore *datasets.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uploads, err := datasetsStore.List(r.Context())
		if err != nil {
			logger.Error("list uploads", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list uploads")
			return
		}
		if uploads == nil {
			uploads = []*datasets.Dataset{}
		}
		writeJSON(w, http.StatusOK, uploads)
	}
}

type uploadResponse struct {
	ID     datasets.ID        `json:"id"`
	Result *statistics.Result `json:"result"`
}

// readUpload returns the uploaded file, sent either as the "file" field of a
// multipart form or as the raw request body.
func readUpload(r *http.Request) (name string, content string, err error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", "", err
		}
		return header.Filename, string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", "", err
	}
	return r.URL.Query().Get("name"), string(data), nil
}

func handleCreateUpload(
	logger *slog.Logger,
	datasetsStore *datasets.Store,
	statisticsService *statistics.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, content, err := readUpload(r)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			writeError(w, http.StatusBadRequest, "Failed to read file")
			return
		}

		result, err := statisticsService.Calculate(r.Context(), sites.SiteUpload, content)
		if err != nil {
			writeStatisticsError(w, logger, result, err)
			return
		}

		dataset := &datasets.Dataset{
			ID:         datasets.NewID(),
			Site:       sites.SiteUpload,
			Name:       name,
			Content:    content,
			UploadedAt: time.Now().UTC(),
		}
		if err := datasetsStore.Insert(r.Context(), dataset); err != nil {
			logger.Error("insert upload", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to store file")
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/api/uploads/%s/statistics", dataset.ID))
		writeJSON(w, http.StatusCreated, uploadResponse{
			ID:     dataset.ID,
			Result: result,
		})
	}
}

func handleUploadStatistics(
	logger *slog.Logger,
	datasetsStore *datasets.Store,
	statisticsService *statistics.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset, err := datasetsStore.FindByID(r.Context(), datasets.ID(r.PathValue("id")))
		if errors.Is(err, datasets.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Upload not found")
			return
		} else if err != nil {
			logger.Error("find upload", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to read file")
			return
		}

		result, err := statisticsService.Calculate(r.Context(), dataset.Site, dataset.Content)
		if err != nil {
			writeStatisticsError(w, logger, result, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleDeleteUpload(logger *slog.Logger, datasetsStore *datasets.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := datasetsStore.Delete(r.Context(), datasets.ID(r.PathValue("id")))
		if errors.Is(err, datasets.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Upload not found")
			return
		} else if err != nil {
			logger.Error("delete upload", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete upload")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
