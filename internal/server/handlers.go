package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/meshview/pkg/buildinfo"
	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/pipeline"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/session"
	"github.com/matzehuels/meshview/pkg/topology"
)

// CreateRequest is the body of POST /documents.
type CreateRequest struct {
	Topology      json.RawMessage          `json:"topology"`
	Configuration *config.Configuration    `json:"configuration,omitempty"`
	Base          config.BaseConfiguration `json:"base"`
}

// CreateResponse is the reply to POST /documents.
type CreateResponse struct {
	ID      string `json:"id"`
	ViewBox string `json:"viewBox"`
	SVG     string `json:"svg"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Topology) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "topology is required"))
		return
	}
	t, err := topology.ReadJSON(bytes.NewReader(req.Topology))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Sessions need a live document, so the cached SVG is never enough.
	res, err := s.runner.Render(r.Context(), pipeline.Options{
		Topology: t,
		Config:   req.Configuration,
		Base:     req.Base,
		Refresh:  true,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := res.Document.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := session.New(snap, s.ttl)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}

	w.Header().Set("Location", "/documents/"+sess.ID)
	writeJSON(w, http.StatusCreated, CreateResponse{
		ID:      sess.ID,
		ViewBox: res.Document.Bounds().String(),
		SVG:     string(res.SVG),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "list sessions"))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"documents": ids})
}

// sessionID reads and checks the {id} route parameter.
func sessionID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		return "", err
	}
	return id, nil
}

// load fetches a session and resumes its document.
func (s *Server) load(r *http.Request, id string) (*session.Session, *mesh.Document, error) {
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, nil, session.NotFound(id)
	}
	doc, err := sess.Document()
	if err != nil {
		return nil, nil, err
	}
	return sess, doc, nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, doc, err := s.load(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(doc.SVG())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req mesh.UpdateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	unlock := s.lock(id)
	defer unlock()

	sess, doc, err := s.load(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	up, err := s.runner.Update(r.Context(), doc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := doc.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Touch(snap, s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	unlock := s.lock(id)
	defer unlock()

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	s.locks.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}
