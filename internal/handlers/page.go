package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	"fraud-screen/internal/catalog"
	"fraud-screen/internal/errors"
	"fraud-screen/internal/observability"
	"fraud-screen/internal/scoring"
	"fraud-screen/internal/services"
	"fraud-screen/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	screening *services.Screening
	logger    *slog.Logger
	now       func() time.Time
}

func NewPageHandlers(screening *services.Screening, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		screening: screening,
		logger:    logger,
		now:       time.Now,
	}
}

// freshFormInput is the input for an unsubmitted form: the default values
// with each categorical field preselected to the first catalog entry.
func (h *PageHandlers) freshFormInput() FormInput {
	c := h.screening.Catalogs()
	in := DefaultFormInput(h.now())
	in.Merchant = c.List(catalog.Merchants).Default()
	in.Category = c.List(catalog.Categories).Default()
	in.State = c.List(catalog.States).Default()
	in.Job = c.List(catalog.Jobs).Default()
	return in
}

// newPageData shows in as submitted. An empty categorical field stays
// unselected.
func newPageData(screening *services.Screening, in FormInput) templates.PageData {
	c := screening.Catalogs()
	return templates.PageData{
		Merchants:  c.List(catalog.Merchants).Values(),
		Categories: c.List(catalog.Categories).Values(),
		States:     c.List(catalog.States).Values(),
		Jobs:       c.List(catalog.Jobs).Values(),
		Genders:    scoring.Genders(),
		ShowGeo:    screening.Schema().HasGeo(),
		Values:     in.Values(),
	}
}

// errorView turns a scoring failure into the panel shown to the user.
// Internal failures are not described.
func errorView(appErr *errors.AppError) *templates.ErrorView {
	if !appErr.Recoverable() {
		return &templates.ErrorView{Message: "Scoring failed unexpectedly"}
	}
	return &templates.ErrorView{Message: appErr.Message, Field: appErr.Field}
}

func (h *PageHandlers) render(ctx context.Context, w http.ResponseWriter, status int, c templ.Component) {
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		h.logger.Error("render page", "error", err, "request_id", observability.GetRequestID(ctx))
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(sb.String()))
}

// HandleForm shows the empty form.
func (h *PageHandlers) HandleForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	data := newPageData(h.screening, h.freshFormInput())
	h.render(r.Context(), w, http.StatusOK, templates.Page(data))
}

// HandleSubmit scores a plain HTML form post and re-renders the page with
// the verdict or the error.
func (h *PageHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := newPageData(h.screening, h.freshFormInput())
		data.Error = &templates.ErrorView{Message: "The form could not be read"}
		h.render(r.Context(), w, http.StatusBadRequest, templates.Page(data))
		return
	}

	in := FormInputFromValues(r.PostForm)
	data := newPageData(h.screening, in)

	rec, err := in.Record()
	if err == nil {
		verdict, scoreErr := h.screening.Score(r.Context(), rec)
		if scoreErr == nil {
			data.Verdict = &verdict
			h.render(r.Context(), w, http.StatusOK, templates.Page(data))
			return
		}
		err = scoreErr
	}

	appErr := errors.FromError(err)
	appErr.RequestID = observability.GetRequestID(r.Context())
	errors.LogError(h.logger, appErr)

	data.Error = errorView(appErr)
	h.render(r.Context(), w, appErr.StatusCode, templates.Page(data))
}
