package server

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/internal/metrics"
	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/validation"
)

const maxBodyBytes = 1 << 20

type submitResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) validateJSON(w http.ResponseWriter, r *http.Request) {
	values, ok := s.decodeValues(w, r)
	if !ok {
		return
	}
	_, err := s.orch.Schema().Validate(values)
	writeJSON(w, http.StatusOK, validation.ResultOf(err))
}

func (s *Server) submitJSON(w http.ResponseWriter, r *http.Request) {
	values, ok := s.decodeValues(w, r)
	if !ok {
		return
	}
	f, err := s.orch.FormFor(values)
	if err != nil {
		s.fail(w, "build form", err)
		return
	}
	accepted, err := f.Submit(r.Context())
	if err != nil {
		s.observeSubmission(channelAPI, metrics.OutcomeError, nil)
		s.fail(w, "submit form", err)
		return
	}
	if !accepted {
		s.observeSubmission(channelAPI, metrics.OutcomeRejected, f.Errors())
		_, verr := s.orch.Schema().Validate(f.Values())
		writeJSON(w, http.StatusUnprocessableEntity, validation.ResultOf(verr))
		return
	}
	s.observeSubmission(channelAPI, metrics.OutcomeAccepted, nil)
	writeJSON(w, http.StatusOK, submitResponse{OK: true, Message: form.Acknowledgement})
}

// decodeValues reads a JSON object and checks it against the request schema.
// On failure it writes a 400 and reports false.
func (s *Server) decodeValues(w http.ResponseWriter, r *http.Request) (model.Values, bool) {
	var body any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return nil, false
	}
	if err := s.doc.CheckBody(r.Method, r.URL.Path, body); err != nil {
		s.logger.Debug("reject request body", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	object, _ := body.(map[string]any)
	def := s.orch.Definition()
	values := def.ZeroValues()
	for _, field := range def.Fields() {
		if value, ok := object[field.Name]; ok && value != nil {
			values[field.Name] = model.NormalizeValue(value)
		}
	}
	return values, true
}

func (s *Server) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.doc.Raw())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
