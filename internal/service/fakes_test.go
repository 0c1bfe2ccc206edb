package service

import (
	"fmt"
	"sync"

	"gorm.io/datatypes"

	"workchat-intake-backend/internal/model"
	"workchat-intake-backend/internal/repository"
)

type fakeQuestionnaireRepo struct {
	mu    sync.Mutex
	items map[string]*model.Questionnaire
	order []string
}

func newFakeQuestionnaireRepo() *fakeQuestionnaireRepo {
	return &fakeQuestionnaireRepo{items: map[string]*model.Questionnaire{}}
}

func (r *fakeQuestionnaireRepo) Create(q *model.Questionnaire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.ID == "" {
		q.ID = fmt.Sprintf("q%d", len(r.items)+1)
	}
	cp := *q
	r.items[q.ID] = &cp
	r.order = append(r.order, q.ID)
	return nil
}

func (r *fakeQuestionnaireRepo) FindByID(id string) (*model.Questionnaire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuestionnaireRepo) FindActiveBySubdomain(subdomain string) (*model.Questionnaire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.items {
		if q.Subdomain == subdomain && q.IsActive {
			cp := *q
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeQuestionnaireRepo) ListActive() ([]model.Questionnaire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Questionnaire
	for i := len(r.order) - 1; i >= 0; i-- {
		if q := r.items[r.order[i]]; q.IsActive {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuestionnaireRepo) SubdomainExists(subdomain string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.items {
		if q.Subdomain == subdomain {
			return true, nil
		}
	}
	return false, nil
}

type fakeResponseRepo struct {
	mu             sync.Mutex
	items          map[string]*model.Response
	files          []model.ResponseFile
	questionnaires *fakeQuestionnaireRepo
	updates        int
}

func newFakeResponseRepo(qs *fakeQuestionnaireRepo) *fakeResponseRepo {
	return &fakeResponseRepo{items: map[string]*model.Response{}, questionnaires: qs}
}

// clone copies the mutable columns so callers only see what was written.
func clone(r *model.Response) *model.Response {
	cp := *r
	cp.Answers = datatypes.NewJSONType(copyMap(r.Answers.Data()))
	cp.Metadata = datatypes.NewJSONType(copyMap(r.Metadata.Data()))
	cp.History = datatypes.NewJSONType(append([]string{}, r.History.Data()...))
	cp.Files = nil
	cp.Questionnaire = nil
	return &cp
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *fakeResponseRepo) Create(resp *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resp.ID == "" {
		resp.ID = fmt.Sprintf("r%d", len(r.items)+1)
	}
	r.items[resp.ID] = clone(resp)
	return nil
}

func (r *fakeResponseRepo) find(id string) (*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	resp := clone(stored)
	for _, f := range r.files {
		if f.ResponseID == id {
			resp.Files = append(resp.Files, f)
		}
	}
	return resp, nil
}

func (r *fakeResponseRepo) FindByID(id string) (*model.Response, error) {
	return r.find(id)
}

func (r *fakeResponseRepo) FindWithQuestionnaire(id string) (*model.Response, error) {
	resp, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if q, err := r.questionnaires.FindByID(resp.QuestionnaireID); err == nil {
		resp.Questionnaire = q
	}
	return resp, nil
}

func (r *fakeResponseRepo) Update(resp *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[resp.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[resp.ID] = clone(resp)
	r.updates++
	return nil
}

func (r *fakeResponseRepo) Complete(resp *model.Response) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[resp.ID]
	if !ok || stored.Status == model.StatusCompleted {
		return false, nil
	}
	cp := clone(resp)
	cp.Status = model.StatusCompleted
	r.items[resp.ID] = cp
	return true, nil
}

func (r *fakeResponseRepo) SaveFile(f *model.ResponseFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = fmt.Sprintf("f%d", len(r.files)+1)
	}
	r.files = append(r.files, *f)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *fakeMailer) Send(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
