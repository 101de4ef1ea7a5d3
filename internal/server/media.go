package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// mediaKinds lists the object directories exposed by [MediaHandler].
var mediaKinds = map[string]bool{"audio": true, "image": true}

// MediaHandler serves locally stored objects at /media/{kind}/{name}.
type MediaHandler struct {
	dir    string
	logger *log.Logger
}

// NewMediaHandler creates a [MediaHandler] serving files below dir.
func NewMediaHandler(dir string, logger *log.Logger) *MediaHandler {
	return &MediaHandler{dir: dir, logger: logger}
}

// Routes serves GET (and so HEAD) only.
func (h *MediaHandler) Routes() []string {
	return []string{"GET /media/{kind}/{name}"}
}

func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind, name := r.PathValue("kind"), r.PathValue("name")
	if !mediaKinds[kind] || !validObjectName(name) {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.dir, kind, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("failed to stat media object", "path", path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, path)
}

func validObjectName(name string) bool {
	return name != "" &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsAny(name, `/\`) &&
		filepath.Base(name) == name
}

// HealthHandler reports liveness at /health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
