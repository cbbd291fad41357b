package workflow

import (
	"context"
	"time"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/cache"
	"github.com/jackzampolin/lessonpress/internal/document"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

// RenderRequest selects what to render.
type RenderRequest struct {
	Subject string `json:"subject" validate:"required,max=128"`
	Class   string `json:"class" validate:"required"`
	Mode    string `json:"mode" validate:"required,oneof=pupil teacher"`
}

// sharedRenderTimeout bounds a render shared between concurrent requests. The
// shared render does not follow any single caller's cancellation.
const sharedRenderTimeout = 2 * time.Minute

// RenderPDF renders the stored lessons for subject and class. It always
// returns a payload: the PDF, or a text/plain body carrying the error.
func (w *Workflow) RenderPDF(ctx context.Context, subject, class, mode string) (contentType string, body []byte) {
	pdf, err := w.Render(ctx, RenderRequest{Subject: subject, Class: class, Mode: mode})
	if err != nil {
		w.logger.Error("render failed",
			"subject", subject, "class", class, "mode", mode,
			"code", agenterr.CodeOf(err), "error", err)
		return ContentTypeText, []byte(err.Error())
	}
	return ContentTypePDF, pdf
}

// Render renders the stored lessons for req. Identical concurrent requests
// share one render, and results are cached until new lessons are stored or
// a render asset changes.
func (w *Workflow) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if err := w.validate.Struct(req); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeInvalidRequest, err, "invalid render request")
	}
	class, err := lesson.ParseClassLevel(req.Class)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeInvalidClassLevel, err, "invalid class")
	}
	mode := document.Mode(req.Mode)

	key := cache.Key(req.Subject, string(class), string(mode)) + ":" + w.renderer.Fingerprint()
	if pdf, ok := w.cache.Get(ctx, key); ok {
		w.logger.Debug("render cache hit", "key", key)
		return pdf, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := w.renders.DoChan(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(detached, sharedRenderTimeout)
		defer cancel()
		return w.render(rctx, req.Subject, class, mode, key)
	})

	select {
	case <-ctx.Done():
		return nil, agenterr.Wrap(agenterr.CodeCanceled, ctx.Err(), "render canceled")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			w.logger.Debug("render shared with concurrent request", "key", key)
		}
		return res.Val.([]byte), nil
	}
}

func (w *Workflow) render(ctx context.Context, subject string, class lesson.ClassLevel, mode document.Mode, key string) ([]byte, error) {
	stored, err := w.store.FetchLessons(ctx, subject, class)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, agenterr.New(agenterr.CodeNotFound, "no lessons stored for %s %s", subject, class)
	}

	contents := make([]lesson.CompleteLessonContent, 0, len(stored))
	for _, s := range stored {
		contents = append(contents, s.CompleteLessonContent)
	}

	doc, err := document.New(subject, class, mode, contents)
	if err != nil {
		return nil, err
	}

	pdf, err := w.renderer.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	w.cache.Set(ctx, key, pdf)
	return pdf, nil
}
