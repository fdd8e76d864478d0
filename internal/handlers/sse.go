package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"fraud-screen/internal/errors"
	"fraud-screen/internal/observability"
	"fraud-screen/internal/services"
	"fraud-screen/internal/ui/templates"
)

type SSEHandlers struct {
	screening *services.Screening
	logger    *slog.Logger
}

func NewSSEHandlers(screening *services.Screening, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		screening: screening,
		logger:    logger,
	}
}

// readFormInput accepts either a form-encoded body (Datastar's form content
// type or a plain post) or Datastar JSON signals.
func readFormInput(r *http.Request) (FormInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return FormInput{}, err
		}
		return FormInputFromValues(r.PostForm), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return FormInput{}, err
		}
		return FormInputFromValues(r.PostForm), nil
	}

	var signals map[string]signalField
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return FormInput{}, err
	}
	return FormInputFromSignals(signals), nil
}

func renderComponent(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	err := c.Render(ctx, &sb)
	return sb.String(), err
}

// HandleScore scores a Datastar submission, patches the result panel and
// sets the verdict signal. The verdict is null when the submission is
// rejected.
func (h *SSEHandlers) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)

	var (
		panel   templ.Component
		signals = map[string]any{}
	)

	in, err := readFormInput(r)
	if err != nil {
		err = errors.BadRequestWrap(err, "The submission could not be read")
	} else {
		rec, recErr := in.Record()
		if recErr == nil {
			verdict, scoreErr := h.screening.Score(ctx, rec)
			if scoreErr == nil {
				panel = templates.Result(verdict)
				signals["verdict"] = verdict
			}
			recErr = scoreErr
		}
		err = recErr
	}

	if err != nil {
		appErr := errors.FromError(err)
		appErr.RequestID = requestID
		errors.LogError(h.logger, appErr)
		panel = templates.ErrorPanel(*errorView(appErr))
		signals["verdict"] = nil
	}

	// the stream is opened only after the body has been consumed
	sse := datastar.NewSSE(w, r)

	html, err := renderComponent(ctx, panel)
	if err != nil {
		h.logger.Error("render result panel", "error", err, "request_id", requestID)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch result panel", "error", err, "request_id", requestID)
		return
	}

	jsonData, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal verdict signals", "error", err, "request_id", requestID)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
