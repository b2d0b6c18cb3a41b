package server

import (
	"errors"
	stdhtml "html"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/internal/metrics"
	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/render"
)

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	f, err := s.orch.NewForm(r.Context())
	if err != nil {
		s.fail(w, "build form", err)
		return
	}
	s.writePage(w, r, f, http.StatusOK, "")
}

func (s *Server) postForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	def := s.orch.Definition()

	f, err := s.orch.FormFor(render.DecodeSubmission(def, r.PostForm))
	if err != nil {
		s.fail(w, "build form", err)
		return
	}
	ok, err := f.Submit(ctx)
	if err != nil {
		s.observeSubmission(channelHTML, metrics.OutcomeError, nil)
		s.fail(w, "submit form", err)
		return
	}
	// Markup is stripped after validation so messages describe what was typed.
	if err := s.scrub(f); err != nil {
		s.fail(w, "scrub form", err)
		return
	}
	if s.persistDrafts {
		if err := s.orch.SaveDraft(ctx, f.Values()); err != nil {
			s.logger.Warn("save draft", zap.Error(err))
		}
	}

	if !ok {
		s.observeSubmission(channelHTML, metrics.OutcomeRejected, f.Errors())
		s.writePage(w, r, f, http.StatusUnprocessableEntity, "")
		return
	}
	s.observeSubmission(channelHTML, metrics.OutcomeAccepted, nil)
	s.writePage(w, r, f, http.StatusOK, form.Acknowledgement)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, f *form.Form, status int, notice string) {
	renderer, err := s.orch.Negotiate(r.Header.Get("Accept"))
	if errors.Is(err, render.ErrNotAcceptable) {
		http.Error(w, http.StatusText(http.StatusNotAcceptable), http.StatusNotAcceptable)
		return
	}
	if err != nil {
		s.fail(w, "negotiate renderer", err)
		return
	}
	body, err := s.orch.Render(r.Context(), f, renderer.Name(), render.RenderOptions{
		Action: "/",
		Notice: notice,
	})
	if err != nil {
		s.fail(w, "render form", err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Add("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// scrub strips markup from the values echoed back into the page or saved as
// a draft. Passwords are left as typed. The error map is kept.
func (s *Server) scrub(f *form.Form) error {
	values := f.Values()
	for _, field := range f.Definition().Fields() {
		if field.Format == model.FormatPassword {
			continue
		}
		var clean any
		if field.MultiChoice() {
			tokens := values.Strings(field.Name)
			cleaned := make([]string, 0, len(tokens))
			for _, token := range tokens {
				cleaned = append(cleaned, s.clean(token))
			}
			clean = cleaned
		} else {
			clean = s.clean(values.String(field.Name))
		}
		if err := f.SetField(field.Name, clean); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) clean(text string) string {
	return stdhtml.UnescapeString(s.sanitizer.Sanitize(text))
}

func (s *Server) fail(w http.ResponseWriter, action string, err error) {
	s.logger.Error(action, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
