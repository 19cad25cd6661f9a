package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JackVanta/VantaSDK/internal/chat"
	"github.com/JackVanta/VantaSDK/internal/files"
	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/JackVanta/VantaSDK/internal/project"
	"github.com/JackVanta/VantaSDK/internal/waitlist"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const (
	maxChatBody      = 16 << 20
	maxMultipartMem  = 32 << 20
	waitlistFailure  = "Failed to process request. Please try again."
	waitlistSuccess  = "You're on the list! We'll be in touch soon."
	waitlistConflict = "This email or X handle is already on the waitlist"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("Failed to encode response: %v", err)
	}
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, failure{Success: false, Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChatInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.chat.Health())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
		logrus.Warnf("Invalid chat request body: %v", err)
		resp, status := chat.Failure()
		writeJSON(w, status, resp)
		return
	}
	resp, status := s.chat.Handle(r.Context(), req)
	writeJSON(w, status, resp)
}

type importResponse struct {
	Success bool                  `json:"success"`
	Files   models.ProjectFiles   `json:"files"`
	Entry   string                `json:"entry"`
	Tree    []models.FileTreeItem `json:"tree"`
}

// handleImport accepts either one .zip part or several file parts under "files".
// Multipart file names lose their directories, so relative paths may be sent in
// "paths" values in the same order as the files.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMem); err != nil {
		writeFailure(w, http.StatusBadRequest, "Error parsing multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeFailure(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	var (
		collected models.ProjectFiles
		err       error
	)
	if len(headers) == 1 && strings.HasSuffix(strings.ToLower(headers[0].Filename), ".zip") {
		collected, err = s.importZip(headers[0])
	} else {
		collected, err = s.importFiles(headers, r.MultipartForm.Value["paths"])
	}
	switch {
	case errors.Is(err, files.ErrInvalidArchive):
		writeFailure(w, http.StatusBadRequest, "Failed to parse ZIP file. Please make sure it's a valid archive.")
		return
	case errors.Is(err, files.ErrNoFiles):
		writeFailure(w, http.StatusBadRequest, "No usable text files found")
		return
	case err != nil:
		logrus.Errorf("Project import failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to import project")
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Success: true,
		Files:   collected,
		Entry:   project.ResolveEntryFile(collected),
		Tree:    project.DeriveFileTree(collected),
	})
}

func (s *Server) importZip(header *multipart.FileHeader) (models.ProjectFiles, error) {
	if header.Size > s.cfg.MaxZipSize {
		return nil, files.ErrInvalidArchive
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return s.collector.FromZip(bytes.NewReader(data), int64(len(data)))
}

func (s *Server) importFiles(headers []*multipart.FileHeader, paths []string) (models.ProjectFiles, error) {
	entries := make([]files.Entry, 0, len(headers))
	for i, header := range headers {
		name := header.Filename
		if i < len(paths) && paths[i] != "" {
			name = paths[i]
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		entries = append(entries, files.Entry{Path: name, Data: data})
	}
	return s.collector.FromEntries(entries)
}

type templateSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Entry       string `json:"entry"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	var out []templateSummary
	for _, name := range project.TemplateNames() {
		t, err := project.LookupTemplate(name)
		if err != nil {
			continue
		}
		out = append(out, templateSummary{Name: t.Name, Title: t.Title, Description: t.Description, Entry: t.Entry})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "templates": out})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	st, err := project.CreateNew(chi.URLParam(r, "name"))
	if errors.Is(err, project.ErrUnknownTemplate) {
		writeFailure(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		logrus.Errorf("Failed to load template: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to load template")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"project": st,
		"tree":    project.DeriveFileTree(st.Files),
	})
}

func (s *Server) handleWaitlistAdd(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, http.StatusInternalServerError, waitlistFailure)
		return
	}
	xHandle, _ := body["xHandle"].(string)
	email, _ := body["email"].(string)

	entry, err := s.waitlist.Add(xHandle, email)
	var vErr *waitlist.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeFailure(w, http.StatusBadRequest, vErr.Message)
		return
	case errors.Is(err, waitlist.ErrDuplicate):
		writeFailure(w, http.StatusConflict, waitlistConflict)
		return
	case err != nil:
		logrus.Errorf("[Waitlist] Error: %v", err)
		writeFailure(w, http.StatusInternalServerError, waitlistFailure)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": waitlistSuccess,
		"id":      entry.ID,
	})
}

func (s *Server) handleWaitlistCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.waitlist.Count()
	if err != nil {
		logrus.Errorf("[Waitlist] Error: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to read waitlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": count})
}
