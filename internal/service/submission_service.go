package service

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"workchat-intake-backend/internal/model"
	"workchat-intake-backend/internal/questionnaire"
	"workchat-intake-backend/internal/repository"
	"workchat-intake-backend/utilities"
)

type SummaryLine struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SummaryFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Summary is the firm-facing digest of a submitted response.
type Summary struct {
	ResponseID     string        `json:"response_id"`
	SessionID      string        `json:"session_id"`
	Questionnaire  string        `json:"questionnaire"`
	LawFirmName    string        `json:"law_firm_name"`
	LawFirmEmail   string        `json:"law_firm_email"`
	RespondentName string        `json:"respondent_name"`
	SubmittedAt    *time.Time    `json:"submitted_at,omitempty"`
	Lines          []SummaryLine `json:"lines"`
	Files          []SummaryFile `json:"files"`
}

// Subject is the notification email subject.
func (s *Summary) Subject() string {
	return fmt.Sprintf("New Intake Submission - %s - %s", s.Questionnaire, s.RespondentName)
}

// Text is the plain text notification body.
func (s *Summary) Text() string {
	var b strings.Builder
	b.WriteString("New Intake Submission Received\n\n")
	fmt.Fprintf(&b, "Questionnaire: %s\n", s.Questionnaire)
	if s.SubmittedAt != nil {
		fmt.Fprintf(&b, "Submitted: %s\n", s.SubmittedAt.Format("Jan 2, 2006 3:04 PM MST"))
	}
	fmt.Fprintf(&b, "Session ID: %s\n\n", s.SessionID)
	b.WriteString("--- RESPONDENT INFORMATION ---\n")
	for _, l := range s.Lines {
		fmt.Fprintf(&b, "%s: %s\n", l.Question, l.Answer)
	}
	if len(s.Files) > 0 {
		b.WriteString("\n--- ATTACHMENTS ---\n")
		for _, f := range s.Files {
			fmt.Fprintf(&b, "%s: %s\n", f.Name, f.URL)
		}
	}
	return b.String()
}

type SubmissionService interface {
	Summary(responseID string) (*Summary, error)
	SummaryPDF(responseID string) ([]byte, error)
	// Notify emails the summary and its PDF to the firm.
	Notify(responseID string) error
}

type submissionService struct {
	responses repository.ResponseRepository
	mailer    Mailer
	from      string
}

func NewSubmissionService(responses repository.ResponseRepository, mailer Mailer, from string) SubmissionService {
	return &submissionService{responses: responses, mailer: mailer, from: from}
}

// InitSubmissionEventListeners notifies the firm of every submitted
// response. Failures are logged; the submission itself already succeeded.
func InitSubmissionEventListeners(bus *utilities.EventBus, submissions SubmissionService) {
	bus.Subscribe(utilities.EventResponseSubmitted, func(data interface{}) {
		responseID, ok := data.(string)
		if !ok {
			utilities.Warn("invalid response id received for submission notice: %v", data)
			return
		}
		if err := submissions.Notify(responseID); err != nil {
			utilities.Error("notify firm of response %s: %v", responseID, err)
		}
	})
}

func (s *submissionService) load(responseID string) (*model.Response, error) {
	resp, err := s.responses.FindWithQuestionnaire(responseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	if resp.Questionnaire == nil {
		return nil, fmt.Errorf("response %s: %w", responseID, ErrQuestionnaireNotFound)
	}
	return resp, nil
}

func (s *submissionService) Summary(responseID string) (*Summary, error) {
	resp, err := s.load(responseID)
	if err != nil {
		return nil, err
	}
	return BuildSummary(resp, resp.Questionnaire), nil
}

func (s *submissionService) SummaryPDF(responseID string) ([]byte, error) {
	summary, err := s.Summary(responseID)
	if err != nil {
		return nil, err
	}
	return RenderSummaryPDF(summary)
}

func (s *submissionService) Notify(responseID string) error {
	resp, err := s.load(responseID)
	if err != nil {
		return err
	}
	summary := BuildSummary(resp, resp.Questionnaire)

	msg := Message{
		From:    s.from,
		To:      resp.Questionnaire.LawFirmEmail,
		ToName:  resp.Questionnaire.LawFirmName,
		Subject: summary.Subject(),
		Text:    summary.Text(),
	}
	if pdf, err := RenderSummaryPDF(summary); err != nil {
		utilities.Warn("summary PDF for response %s: %v", responseID, err)
	} else {
		msg.Attachments = append(msg.Attachments, Attachment{
			Name:        fmt.Sprintf("intake_%s.pdf", resp.SessionID),
			ContentType: "application/pdf",
			Data:        pdf,
		})
	}

	if err := s.mailer.Send(msg); err != nil {
		return fmt.Errorf("send submission email: %w", err)
	}
	utilities.Info("submission %s sent to %s", responseID, msg.To)
	return nil
}

// BuildSummary lists the answered questions in questionnaire order with
// their titles interpolated. Without a field list every answer is listed
// under its key.
func BuildSummary(resp *model.Response, q *model.Questionnaire) *Summary {
	answers := questionnaire.Answers(resp.Answers.Data())
	config := q.Config.Data()
	cfg := &config

	summary := &Summary{
		ResponseID:     resp.ID,
		SessionID:      resp.SessionID,
		Questionnaire:  q.Title,
		LawFirmName:    q.LawFirmName,
		LawFirmEmail:   q.LawFirmEmail,
		RespondentName: respondentName(answers),
		SubmittedAt:    resp.SubmittedAt,
		Lines:          []SummaryLine{},
		Files:          []SummaryFile{},
	}

	if len(cfg.Fields) > 0 {
		for i := range cfg.Fields {
			f := &cfg.Fields[i]
			answer, ok := answers.ForField(f)
			if !ok || answer == "" {
				continue
			}
			summary.Lines = append(summary.Lines, SummaryLine{
				Question: questionnaire.Interpolate(f.Title, answers),
				Answer:   questionnaire.FormatAnswer(answer),
			})
		}
	} else {
		keys := make([]string, 0, len(answers))
		for k := range answers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if answers[k] == nil || answers[k] == "" {
				continue
			}
			summary.Lines = append(summary.Lines, SummaryLine{Question: k, Answer: questionnaire.FormatAnswer(answers[k])})
		}
	}

	for _, f := range resp.Files {
		summary.Files = append(summary.Files, SummaryFile{Name: f.FileName, URL: f.FileURL})
	}
	return summary
}

func respondentName(answers questionnaire.Answers) string {
	pick := func(keys ...string) string {
		for _, k := range keys {
			if s := strings.TrimSpace(questionnaire.Stringify(answers[k])); s != "" {
				return s
			}
		}
		return ""
	}
	if full := pick("fullname", "fullName", "full_name"); full != "" {
		return full
	}
	first := pick("firstname", "firstName", "first_name")
	last := pick("lastname", "lastName", "last_name")
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return "Unknown"
}

// RenderSummaryPDF lays the summary out on A4 pages.
func RenderSummaryPDF(s *Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(s.Subject(), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 8, tr(s.Questionnaire), "", "L", false)
	pdf.SetFont("Arial", "", 10)
	if s.LawFirmName != "" {
		pdf.MultiCell(0, 6, tr(s.LawFirmName), "", "L", false)
	}
	if s.SubmittedAt != nil {
		pdf.MultiCell(0, 6, "Submitted: "+s.SubmittedAt.Format("Jan 2, 2006 3:04 PM MST"), "", "L", false)
	}
	pdf.MultiCell(0, 6, "Respondent: "+tr(s.RespondentName), "", "L", false)
	pdf.Ln(6)

	for _, l := range s.Lines {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(l.Question), "", "L", false)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(l.Answer), "", "L", false)
		pdf.Ln(3)
	}

	if len(s.Files) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, "Attachments")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, f := range s.Files {
			pdf.MultiCell(0, 6, tr(f.Name+": "+f.URL), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary PDF: %w", err)
	}
	return buf.Bytes(), nil
}
