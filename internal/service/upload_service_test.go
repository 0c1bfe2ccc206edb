package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workchat-intake-backend/internal/config"
	"workchat-intake-backend/internal/questionnaire"
)

const pdfBody = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n"

type uploadFixture struct {
	responses *fakeResponseRepo
	sessions  ResponseService
	svc       UploadService
	dir       string
	response  string
}

func newUploadFixture(t *testing.T) *uploadFixture {
	t.Helper()
	qs := newFakeQuestionnaireRepo()
	f := &uploadFixture{responses: newFakeResponseRepo(qs), dir: t.TempDir()}
	qid := importIntake(t, NewQuestionnaireService(qs), "sanford")
	f.sessions = NewResponseService(f.responses, qs, questionnaire.NewEngine(questionnaire.Options{}), nil)
	s, err := f.sessions.Start(qid, nil)
	require.NoError(t, err)
	f.response = s.ResponseID
	f.svc = NewUploadService(f.sessions, f.responses, config.UploadConfig{
		Dir:          f.dir,
		PublicPath:   "/uploads",
		MaxBytes:     1024,
		AllowedTypes: []string{"application/pdf", "image/png"},
	})
	return f
}

func (f *uploadFixture) request(body, contentType string) UploadRequest {
	return UploadRequest{
		ResponseID:  f.response,
		FieldRef:    "details",
		FileName:    "Report.PDF",
		ContentType: contentType,
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUploadService_Upload(t *testing.T) {
	f := newUploadFixture(t)

	file, err := f.svc.Upload(f.request(pdfBody, "application/pdf"))
	require.NoError(t, err)

	assert.Equal(t, f.response, file.ResponseID)
	assert.Equal(t, "details", file.FieldRef)
	assert.Equal(t, "Report.PDF", file.FileName)
	assert.True(t, strings.HasSuffix(file.StoredName, ".pdf"))
	assert.Equal(t, "/uploads/"+file.StoredName, file.FileURL)
	assert.Equal(t, int64(len(pdfBody)), file.FileSize)

	stored, err := os.ReadFile(filepath.Join(f.dir, file.StoredName))
	require.NoError(t, err)
	assert.Equal(t, pdfBody, string(stored))

	resp, err := f.sessions.Get(f.response)
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, file.StoredName, resp.Files[0].StoredName)
}

func TestUploadService_Rejections(t *testing.T) {
	f := newUploadFixture(t)

	req := f.request(pdfBody, "application/pdf")
	req.Size = 4096
	_, err := f.svc.Upload(req)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.svc.Upload(f.request(pdfBody, "application/zip"))
	assert.ErrorIs(t, err, ErrFileType)

	_, err = f.svc.Upload(f.request("just some text pretending to be a PDF", "application/pdf"))
	assert.ErrorIs(t, err, ErrFileType, "content must match an allowed type")

	req = f.request(pdfBody, "application/pdf")
	req.FieldRef = "nope"
	_, err = f.svc.Upload(req)
	assert.ErrorIs(t, err, ErrWrongField)

	req = f.request(pdfBody, "application/pdf")
	req.ResponseID = "missing"
	_, err = f.svc.Upload(req)
	assert.ErrorIs(t, err, ErrResponseNotFound)

	assert.Empty(t, storedFiles(t, f.dir))
}

func TestUploadService_BodyLongerThanDeclared(t *testing.T) {
	f := newUploadFixture(t)

	body := pdfBody + strings.Repeat("x", 2048)
	req := f.request(body, "application/pdf")
	req.Size = 10
	_, err := f.svc.Upload(req)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, storedFiles(t, f.dir))
}

func TestUploadService_CompletedResponse(t *testing.T) {
	f := newUploadFixture(t)
	_, err := f.sessions.Submit(f.response, nil)
	require.NoError(t, err)

	_, err = f.svc.Upload(f.request(pdfBody, "application/pdf"))
	assert.ErrorIs(t, err, ErrResponseCompleted)
}
