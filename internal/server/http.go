package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/face"
	"github.com/arcanaland/cardhouse/internal/preset"
	"github.com/arcanaland/cardhouse/internal/session"
)

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		r.Get("/table", s.handleTable)
		r.Get("/presets", s.handlePresets)
		r.Get("/faces/{suit}/{file}", s.handleFace)
		r.Post("/save", s.handleSave)
		r.Post("/load", s.handleLoad)
	})

	r.Get("/ws", s.handleWS)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type presetList struct {
	Active  string          `json:"active"`
	Presets []preset.Preset `json:"presets"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	var out presetList
	err := s.do(r.Context(), func(sess *session.Session) error {
		out.Active = sess.State().PresetID
		out.Presets = sess.Presets().List()
		return nil
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleFace serves a card face texture, e.g. /api/faces/hearts/Q.webp.
func (s *Server) handleFace(w http.ResponseWriter, r *http.Request) {
	suit := card.Suit(chi.URLParam(r, "suit"))
	file := chi.URLParam(r, "file")
	dot := strings.LastIndexByte(file, '.')
	if dot <= 0 {
		http.Error(w, "expected <rank>.<format>", http.StatusBadRequest)
		return
	}
	rank, ext := file[:dot], file[dot+1:]
	if !suit.Valid() || !card.ValidRank(rank) {
		http.NotFound(w, r)
		return
	}
	format, err := face.ParseFormat(ext)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.facesMu.Lock()
	img := s.faces.Get(suit, rank)
	s.facesMu.Unlock()

	var buf bytes.Buffer
	if err := face.Encode(&buf, img, format); err != nil {
		s.log.Error("face encode", zap.Error(err))
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	err := s.do(r.Context(), func(sess *session.Session) error { return sess.Save() })
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	err := s.do(r.Context(), func(sess *session.Session) error { return sess.Load() })
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
