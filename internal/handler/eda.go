package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/bikeshare/internal/eda"
	"github.com/templui/bikeshare/internal/metrics"
	"github.com/templui/bikeshare/internal/ui"
	"github.com/templui/bikeshare/internal/ui/pages"
	"github.com/templui/bikeshare/internal/validation"
)

type EDAHandler struct {
	engine        *eda.Engine
	maxUploadSize int64
}

func NewEDAHandler(engine *eda.Engine, maxUploadSize int64) *EDAHandler {
	return &EDAHandler{
		engine:        engine,
		maxUploadSize: maxUploadSize,
	}
}

func (h *EDAHandler) EDAPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.EDA(nil, nil))
}

// Analyze charts an uploaded CSV. A chart whose columns are unusable is
// reported in place while the others still render.
func (h *EDAHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.EDAUploadsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		if !errors.Is(err, http.ErrMissingFile) {
			slog.Warn("failed to read upload", "error", err)
		}
		ui.Render(w, r, pages.EDA(nil, pages.Error("eda.invalid_file")))
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	err = validation.ValidateFile(header, validation.CSVConstraints.WithMaxSize(h.maxUploadSize))
	if err != nil {
		metrics.EDAUploadsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		slog.Info("eda upload rejected", "error", err, "filename", header.Filename)
		ui.Render(w, r, pages.EDA(nil, pages.Error("eda.invalid_file")))
		return
	}

	report, err := h.engine.Analyze(file)
	if err != nil {
		metrics.EDAUploadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		slog.Info("eda upload unreadable", "error", err, "filename", header.Filename)
		ui.Render(w, r, pages.EDA(nil, pages.Error("eda.failed")))
		return
	}

	charts := eda.RenderCharts(report)
	for _, c := range charts {
		if c.Err != nil {
			slog.Info("eda chart skipped", "chart", c.ID, "error", c.Err, "filename", header.Filename)
		}
	}

	metrics.EDAUploadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.EDARowsAnalyzed.Observe(float64(report.Rows))
	slog.Info("eda upload analyzed", "filename", header.Filename, "rows", report.Rows, "bytes", header.Size)

	ui.Render(w, r, pages.EDA(&pages.EDAResult{
		Filename: header.Filename,
		Rows:     report.Rows,
		Preview:  report.Preview,
		Charts:   charts,
	}, nil))
}
