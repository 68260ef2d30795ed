package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/interview-coach/internal/generation"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/types"
)

// ResumeResponse is a résumé profile and the tier that produced it
type ResumeResponse struct {
	Resume *types.ResumeExtraction `json:"resume"`
	Tier   generation.TierName     `json:"tier"`
}

// UploadResponse is the extracted text of an uploaded résumé
type UploadResponse struct {
	Text     string                  `json:"text"`
	Metadata ingestion.Metadata      `json:"metadata"`
	Resume   *types.ResumeExtraction `json:"resume,omitempty"`
	Tier     generation.TierName     `json:"tier,omitempty"`
}

// handleAnalyzeResume extracts a candidate profile from résumé text
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeResumeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	resume, tier, err := s.manager.AnalyzeResume(r.Context(), req.ResumeText)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeResponse{Resume: resume, Tier: tier})
}

// handleUploadResume accepts a multipart "file" (text, PDF, DOCX or HTML) or an
// "object_key" in configured object storage, and returns its text. With
// analyze=true the text is also run through résumé analysis.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxDocumentBytes+maxJSONBody)
	if err := r.ParseMultipartForm(ingestion.MaxDocumentBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, ingestion.ErrTooLarge)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	doc, err := s.uploadedDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := UploadResponse{Text: doc.Text, Metadata: doc.Metadata}
	if analyze, _ := strconv.ParseBool(r.FormValue("analyze")); analyze {
		resp.Resume, resp.Tier, err = s.manager.AnalyzeResume(r.Context(), doc.Text)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) uploadedDocument(r *http.Request) (*ingestion.Document, error) {
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
	case errors.Is(err, http.ErrMissingFile):
		key := r.FormValue("object_key")
		if key == "" {
			return nil, &ErrValidation{Field: "file", Message: "a file or object_key is required"}
		}
		if s.objects == nil {
			return nil, &ErrValidation{Field: "object_key", Message: "object storage is not configured"}
		}
		return s.objects.Extract(r.Context(), key)
	default:
		return nil, &ErrValidation{Field: "file", Message: err.Error()}
	}

	data, err := io.ReadAll(io.LimitReader(file, ingestion.MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := ingestion.DetectContentType(header.Header.Get("Content-Type"), header.Filename, data)
	doc, err := ingestion.ExtractText(contentType, data)
	if err != nil {
		return nil, err
	}
	doc.Metadata.Source = header.Filename
	return doc, nil
}
