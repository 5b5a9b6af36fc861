package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SimonDaKappa/go-formcheck"
	"github.com/SimonDaKappa/go-formcheck/internal/logger"
)

// Handler serves validation requests for one rule set. Every field is read
// from the form body first and from the top-level key of a JSON body second.
type Handler struct {
	specs    []formcheck.FieldSpec
	bindings *formcheck.HTTPBindings
	form     *formcheck.FormValidator
	logger   *logger.Logger
}

// NewHandler sets up the form validator for specs. A setup error means the
// rule set cannot be served.
func NewHandler(specs []formcheck.FieldSpec, log *logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.Nop()
	}

	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	bindings := formcheck.DefaultHTTPBindings(names...)

	form, err := formcheck.NewFormValidator(bindings, specs, formcheck.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}

	return &Handler{
		specs:    specs,
		bindings: bindings,
		form:     form,
		logger:   log,
	}, nil
}

// Init builds the router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(h.logger.Middleware)
	router.Use(middleware.Recoverer)

	router.Post("/validate", h.validateForm)
	router.Post("/validate/{field}", h.validateField)
	router.Get("/rules", h.rules)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}

// validateForm validates every field of the request and responds with the
// form result: 200 when valid, 422 when not.
func (h *Handler) validateForm(w http.ResponseWriter, r *http.Request) {
	result, err := h.form.ValidateSource(h.bindings.Source(r))
	if err != nil {
		logger.FromRequest(r).Warn().Err(err).Msg("form validation aborted")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, resultStatus(result.Valid()), result)
}

// validateField validates a single field, as after a change of one input.
func (h *Handler) validateField(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "field")

	result, err := h.form.ValidateSourceField(name, h.bindings.Source(r))
	if err != nil {
		logger.FromRequest(r).Warn().Err(err).Str("field", name).Msg("field validation aborted")
		if errors.Is(err, formcheck.ErrUnknownField) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, resultStatus(result.Valid()), result)
}

type ruleResponse struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

type fieldResponse struct {
	Name  string         `json:"name"`
	Rules []ruleResponse `json:"rules"`
}

type rulesResponse struct {
	Fields []fieldResponse `json:"fields"`
}

// rules lists the configured fields and their rules in order.
func (h *Handler) rules(w http.ResponseWriter, r *http.Request) {
	resp := rulesResponse{Fields: make([]fieldResponse, 0, len(h.specs))}

	for _, spec := range h.specs {
		field := fieldResponse{Name: spec.Name, Rules: make([]ruleResponse, 0, len(spec.Rules))}
		for _, rule := range spec.Rules {
			field.Rules = append(field.Rules, ruleResponse{
				Kind:        rule.Kind().String(),
				Description: rule.String(),
				Message:     rule.Message(),
			})
		}
		resp.Fields = append(resp.Fields, field)
	}

	writeJSON(w, http.StatusOK, resp)
}

func resultStatus(valid bool) int {
	if valid {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", formcheck.ContentTypeApplicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
