package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ohler55/ojg/jp"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/buildinfo"
	"github.com/mverhagen/bpdoc/pkg/cache"
	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/export"
	"github.com/mverhagen/bpdoc/pkg/ledger"
	"github.com/mverhagen/bpdoc/pkg/pipeline"
	"github.com/mverhagen/bpdoc/pkg/registry"
	"github.com/mverhagen/bpdoc/pkg/render"
)

// errorBody is the JSON envelope for error responses.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// assetSummary is one row of the repository listing.
type assetSummary struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

// statusFor maps error codes onto HTTP status codes. Unrecognized
// codes are treated as server faults.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeAssetNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidAsset:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	handles, err := s.repo.QueryByKind(r.Context(), registry.KindBlueprint)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]assetSummary, 0, len(handles))
	for _, h := range handles {
		out = append(out, assetSummary{Name: h.Name, Path: h.Path, Kind: string(h.Kind)})
	}
	writeJSON(w, http.StatusOK, out)
}

// resolveByName loads the first asset whose short name matches. Names
// are not guaranteed unique across content folders; the repository's
// deterministic ordering picks the winner.
func (s *Server) resolveByName(r *http.Request, name string) (*asset.ScriptAsset, error) {
	handles, err := s.repo.QueryByKind(r.Context(), registry.KindBlueprint)
	if err != nil {
		return nil, err
	}
	for _, h := range handles {
		if h.Name == name {
			return s.repo.Resolve(r.Context(), h)
		}
	}
	return nil, errors.New(errors.ErrCodeAssetNotFound, "no asset named '%s'", name)
}

func (s *Server) handleAssetDocument(w http.ResponseWriter, r *http.Request) {
	a, err := s.resolveByName(r, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	_, data, err := s.runner.EncodeDocument(r.Context(), a)
	if err != nil {
		writeError(w, err)
		return
	}

	if query := r.URL.Query().Get("query"); query != "" {
		writeQueryResult(w, data, query)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeQueryResult evaluates a JSONPath expression against the encoded
// document and responds with the matched values.
func writeQueryResult(w http.ResponseWriter, data []byte, query string) {
	expr, err := jp.ParseString(query)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid jsonpath '%s'", query))
		return
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to decode document"))
		return
	}
	writeJSON(w, http.StatusOK, expr.Get(root))
}

func (s *Server) handleAssetMarkdown(w http.ResponseWriter, r *http.Request) {
	a, err := s.resolveByName(r, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	doc, data, err := s.runner.EncodeDocument(r.Context(), a)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.export
	opts.Formats = []string{pipeline.FormatMarkdown}
	artifacts, err := s.runner.Render(r.Context(), doc, cache.Hash(data), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[pipeline.FormatMarkdown])
}

func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	graphName := chi.URLParam(r, "graph")

	a, err := s.resolveByName(r, name)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, data, err := s.runner.EncodeDocument(r.Context(), a)
	if err != nil {
		writeError(w, err)
		return
	}

	var target *export.GraphDoc
	for i := range doc.Graphs {
		if doc.Graphs[i].Name == graphName {
			target = &doc.Graphs[i]
			break
		}
	}
	if target == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "asset '%s' has no graph '%s'", name, graphName))
		return
	}

	// Per-graph renders get their own cache slot under the same content
	// hash, keyed by graph name so sibling graphs never collide.
	key := s.runner.Keyer.ArtifactKey(doc.Path, cache.Hash(data), cache.ArtifactKeyOpts{
		Format:   pipeline.FormatSVG + "/" + graphName,
		Detailed: s.export.Detailed,
		Rankdir:  s.export.Rankdir,
	})
	if svg, hit, err := s.runner.Cache.Get(r.Context(), key); err == nil && hit {
		writeSVG(w, svg)
		return
	}

	dot := render.ToDOT(*target, s.export.DOTOptions())
	svg, err := render.RenderSVG(r.Context(), dot)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = s.runner.Cache.Set(r.Context(), key, svg, s.export.CacheTTL)

	writeSVG(w, svg)
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit '%s'", v))
			return
		}
		limit = n
	}

	if s.runner.History == nil {
		writeJSON(w, http.StatusOK, []ledger.Entry{})
		return
	}

	entries, err := s.runner.History.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
