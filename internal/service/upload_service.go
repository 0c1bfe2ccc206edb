package service

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"workchat-intake-backend/internal/config"
	"workchat-intake-backend/internal/model"
	"workchat-intake-backend/utilities"
)

type UploadRequest struct {
	ResponseID  string
	FieldRef    string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadService interface {
	Upload(req UploadRequest) (*model.ResponseFile, error)
}

type uploadService struct {
	responses ResponseService
	store     fileSaver
	cfg       config.UploadConfig
}

// fileSaver is the part of the response repository uploads need.
type fileSaver interface {
	SaveFile(f *model.ResponseFile) error
}

func NewUploadService(responses ResponseService, store fileSaver, cfg config.UploadConfig) UploadService {
	return &uploadService{responses: responses, store: store, cfg: cfg}
}

func (s *uploadService) Upload(req UploadRequest) (*model.ResponseFile, error) {
	if req.Size > s.cfg.MaxBytes {
		return nil, ErrFileTooLarge
	}
	if !s.allowed(req.ContentType) {
		return nil, ErrFileType
	}

	resp, err := s.responses.Get(req.ResponseID)
	if err != nil {
		return nil, err
	}
	if resp.Completed() {
		return nil, ErrResponseCompleted
	}
	if resp.Questionnaire != nil {
		cfg := resp.Questionnaire.Config.Data()
		if cfg.FieldByIDOrRef(req.FieldRef) == nil {
			return nil, ErrWrongField
		}
	}

	// The declared type is checked against the content itself.
	head := make([]byte, 512)
	n, err := io.ReadFull(req.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if !s.allowed(http.DetectContentType(head)) {
		return nil, ErrFileType
	}

	storedName := uuid.New().String() + extension(req.FileName)
	size, err := s.write(storedName, io.MultiReader(bytes.NewReader(head), req.Body))
	if err != nil {
		return nil, err
	}

	file := &model.ResponseFile{
		ResponseID: resp.ID,
		FieldRef:   req.FieldRef,
		FileName:   filepath.Base(req.FileName),
		StoredName: storedName,
		FileURL:    path.Join(s.cfg.PublicPath, storedName),
		FileSize:   size,
		MimeType:   req.ContentType,
	}
	if err := s.store.SaveFile(file); err != nil {
		os.Remove(filepath.Join(s.cfg.Dir, storedName))
		return nil, err
	}
	utilities.Info("stored %s (%d bytes) for response %s field %s", storedName, size, resp.ID, req.FieldRef)
	return file, nil
}

// write copies at most MaxBytes to the upload dir; a body longer than its
// declared size is rejected and removed.
func (s *uploadService) write(name string, body io.Reader) (int64, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return 0, fmt.Errorf("create upload dir: %w", err)
	}
	dst := filepath.Join(s.cfg.Dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create upload: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(body, s.cfg.MaxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.cfg.MaxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(dst)
		if err == ErrFileTooLarge {
			return 0, err
		}
		return 0, fmt.Errorf("write upload: %w", err)
	}
	return n, nil
}

func (s *uploadService) allowed(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	for _, t := range s.cfg.AllowedTypes {
		if strings.EqualFold(t, mediaType) {
			return true
		}
	}
	return false
}

func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
