// Package mockbackend serves canned stand-ins for the recommendation and
// upload endpoints so the client can be tried without the real services.
package mockbackend

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/longkey1/agrochat/internal/recommend"
	"github.com/longkey1/agrochat/internal/upload"
)

// MaxUploadSize is the largest accepted upload body.
const MaxUploadSize = 10 << 20

type storedFile struct {
	data        []byte
	contentType string
}

// Server keeps uploaded files in memory for the life of the process.
type Server struct {
	mu    sync.RWMutex
	files map[string]storedFile
}

// New returns an empty server.
func New() *Server {
	return &Server{files: make(map[string]storedFile)}
}

// Router returns a router with every endpoint registered. The same router can
// be mounted on both listeners.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/recommend-crop", s.handleRecommend).Methods(http.MethodPost)
	router.HandleFunc("/agent", s.handleUpload).Methods(http.MethodPost)
	router.HandleFunc("/uploads/{name}", s.handleFile).Methods(http.MethodGet)
	return router
}

// Len returns the number of stored files.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, recommend.Response{Error: "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		writeJSON(w, http.StatusBadRequest, recommend.Response{Error: "No input provided"})
		return
	}

	slog.Info("Recommendation requested", "input", req.UserInput, "image_url", req.ImageURL)
	writeJSON(w, http.StatusOK, recommend.Response{Recommendation: CannedReply(req.UserInput, req.ImageURL)})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Could not read file: %v", err)})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	name := uuid.NewString() + ext
	s.mu.Lock()
	s.files[name] = storedFile{data: data, contentType: contentType}
	s.mu.Unlock()

	slog.Info("File stored", "filename", header.Filename, "name", name, "bytes", len(data))
	writeJSON(w, http.StatusOK, upload.Response{ImgURL: fileURL(r, name)})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.RLock()
	f, ok := s.files[name]
	s.mu.RUnlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}

	w.Header().Set("Content-Type", f.contentType)
	w.Write(f.data)
}

// CannedReply is the answer given for every recommendation request. It uses
// the same light markup as the real service (bold spans and line breaks).
func CannedReply(input, imageURL string) string {
	if imageURL != "" {
		return fmt.Sprintf("**Predicted disease:** Early blight\n**Confidence:** 0.87\nImage: %s", imageURL)
	}
	return fmt.Sprintf("**Recommended crop:** rice\nYou asked: %s", strings.TrimSpace(input))
}

func fileURL(r *http.Request, name string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/uploads/%s", scheme, r.Host, name)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
