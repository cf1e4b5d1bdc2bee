package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/vango-dev/abbrev/internal/errors"
	"github.com/vango-dev/abbrev/pkg/resolve"
	"github.com/vango-dev/abbrev/pkg/treeyaml"
)

// Output formats accepted by POST /resolve.
const (
	FormatYAML    = "yaml"
	FormatOutline = "outline"
)

// handleResolve reads a tree document, resolves it and writes it back in
// the requested format.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatYAML
	}
	if format != FormatYAML && format != FormatOutline {
		s.writeError(w, r, http.StatusBadRequest, errors.New("E220").
			WithDetail("Unknown format "+format))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, r, status, errors.New("E221").Wrap(err))
		return
	}

	tree, err := treeyaml.Decode(body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("E200").
			WithLocationFromError("request", err).
			Wrap(err))
		return
	}

	if err := s.config.Resolver.Resolve(r.Context(), tree); err != nil {
		status, aerr := resolveError(err)
		s.writeError(w, r, status, aerr)
		return
	}

	switch format {
	case FormatOutline:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, tree.String()+"\n")
	default:
		out, err := treeyaml.Marshal(tree)
		if err != nil {
			s.writeError(w, r, http.StatusInternalServerError, errors.New("E202").Wrap(err))
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(out)
	}
}

// resolveError maps a resolver failure to a status and error code.
func resolveError(err error) (int, *errors.AbbrevError) {
	var tplErr *resolve.TemplateError
	switch {
	case stderrors.As(err, &tplErr):
		return http.StatusUnprocessableEntity, errors.New("E201").
			WithDetail("Snippet " + tplErr.Name + " has a template that does not parse").
			Wrap(err)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errors.New("E202").
			WithDetail("The request was canceled before resolution finished").
			Wrap(err)
	default:
		return http.StatusInternalServerError, errors.New("E202").Wrap(err)
	}
}

// handleSnippets lists every resolvable snippet name.
func (s *Server) handleSnippets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.Snippets.Names()); err != nil {
		s.logger.Error("write snippets", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}
