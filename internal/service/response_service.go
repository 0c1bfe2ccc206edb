package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"workchat-intake-backend/internal/model"
	"workchat-intake-backend/internal/questionnaire"
	"workchat-intake-backend/internal/repository"
	"workchat-intake-backend/utilities"
)

// ResponseService runs respondent sessions. Every move is validated against
// the questionnaire and persisted before it is returned.
type ResponseService interface {
	Start(questionnaireID string, metadata map[string]any) (*Session, error)
	Get(id string) (*model.Response, error)
	Current(id string) (*Session, error)
	// Save is the auto-save: answers replace the stored ones when non-nil,
	// metadata is merged into the stored metadata.
	Save(id string, answers, metadata map[string]any) (*model.Response, error)
	// Answer records value for the current question and moves on. On the
	// welcome step it just moves to the first question.
	Answer(id, fieldRef string, value any) (*Session, error)
	Back(id string) (*Session, error)
	Submit(id string, answers map[string]any) (*model.Response, error)
}

type responseService struct {
	responses      repository.ResponseRepository
	questionnaires repository.QuestionnaireRepository
	engine         *questionnaire.Engine
	bus            *utilities.EventBus
	now            func() time.Time
}

func NewResponseService(
	responses repository.ResponseRepository,
	questionnaires repository.QuestionnaireRepository,
	engine *questionnaire.Engine,
	bus *utilities.EventBus,
) ResponseService {
	return &responseService{
		responses:      responses,
		questionnaires: questionnaires,
		engine:         engine,
		bus:            bus,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *responseService) Start(questionnaireID string, metadata map[string]any) (*Session, error) {
	q, err := s.questionnaires.FindByID(questionnaireID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !q.IsActive) {
		return nil, ErrQuestionnaireNotFound
	}
	if err != nil {
		return nil, err
	}

	meta := map[string]any{}
	for k, v := range metadata {
		meta[k] = v
	}
	meta["startedAt"] = s.now().Format(time.RFC3339)

	cfg := q.Config.Data()
	nav := questionnaire.NewNavigator(&cfg, s.engine)
	step := nav.Start()
	resp := &model.Response{
		QuestionnaireID: q.ID,
		SessionID:       uuid.New().String(),
		Answers:         datatypes.NewJSONType(map[string]any{}),
		Metadata:        datatypes.NewJSONType(meta),
		Status:          model.StatusInProgress,
		CurrentStep:     step.Key(),
		History:         datatypes.NewJSONType([]string{}),
	}
	if err := s.responses.Create(resp); err != nil {
		return nil, err
	}
	utilities.Info("started response %s for questionnaire %s", resp.ID, q.ID)
	return newSession(resp, nav, step), nil
}

func (s *responseService) Get(id string) (*model.Response, error) {
	resp, err := s.responses.FindWithQuestionnaire(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrResponseNotFound
	}
	return resp, err
}

func (s *responseService) Current(id string) (*Session, error) {
	resp, nav, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return newSession(resp, nav, s.current(resp, nav)), nil
}

func (s *responseService) Save(id string, answers, metadata map[string]any) (*model.Response, error) {
	resp, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if resp.Completed() {
		return nil, ErrResponseCompleted
	}

	if answers != nil {
		resp.Answers = datatypes.NewJSONType(answers)
	}
	if metadata != nil {
		merged := map[string]any{}
		for k, v := range resp.Metadata.Data() {
			merged[k] = v
		}
		for k, v := range metadata {
			merged[k] = v
		}
		resp.Metadata = datatypes.NewJSONType(merged)
	}
	if err := s.responses.Update(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *responseService) Answer(id, fieldRef string, value any) (*Session, error) {
	resp, nav, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if resp.Completed() {
		return nil, ErrResponseCompleted
	}
	answers := questionnaire.Answers(resp.Answers.Data())
	if answers == nil {
		answers = questionnaire.Answers{}
	}

	step := s.current(resp, nav)
	var next questionnaire.Step
	switch step.Kind {
	case questionnaire.StepWelcome:
		next = nav.Next(step, answers)
	case questionnaire.StepQuestion:
		f := step.Field
		if fieldRef != "" && fieldRef != f.Ref && fieldRef != f.ID {
			return nil, ErrWrongField
		}
		if err := questionnaire.ValidateAnswer(f, value); err != nil {
			return nil, err
		}
		if f.Type != questionnaire.FieldStatement {
			if value == nil {
				delete(answers, f.Ref)
			} else {
				answers[f.Ref] = value
			}
		}
		resp.Answers = datatypes.NewJSONType(map[string]any(answers))
		history := append([]string{}, resp.History.Data()...)
		resp.History = datatypes.NewJSONType(append(history, step.Key()))
		next = nav.Next(step, answers)
	default:
		return nil, ErrSessionFinished
	}

	resp.CurrentStep = next.Key()
	if next.Final() {
		if err := s.complete(resp); err != nil {
			return nil, err
		}
	} else if err := s.responses.Update(resp); err != nil {
		return nil, err
	}
	return newSession(resp, nav, next), nil
}

func (s *responseService) Back(id string) (*Session, error) {
	resp, nav, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if resp.Completed() {
		return nil, ErrResponseCompleted
	}

	history := resp.History.Data()
	for len(history) > 0 {
		key := history[len(history)-1]
		history = history[:len(history)-1]
		// Keys of fields removed from the questionnaire since are skipped.
		if step, ok := nav.Resolve(key); ok && step.Kind == questionnaire.StepQuestion {
			resp.History = datatypes.NewJSONType(history)
			resp.CurrentStep = key
			if err := s.responses.Update(resp); err != nil {
				return nil, err
			}
			return newSession(resp, nav, step), nil
		}
	}
	return nil, ErrNoPreviousQuestion
}

func (s *responseService) Submit(id string, answers map[string]any) (*model.Response, error) {
	resp, nav, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if resp.Completed() {
		return nil, ErrResponseCompleted
	}
	if answers != nil {
		resp.Answers = datatypes.NewJSONType(answers)
	}
	if step := s.current(resp, nav); !step.Final() {
		resp.CurrentStep = nav.End().Key()
	}
	if err := s.complete(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// complete marks resp submitted and announces it. It fails with
// ErrResponseCompleted when another request submitted first.
func (s *responseService) complete(resp *model.Response) error {
	now := s.now()
	meta := map[string]any{}
	for k, v := range resp.Metadata.Data() {
		meta[k] = v
	}
	meta["completedAt"] = now.Format(time.RFC3339)
	resp.Metadata = datatypes.NewJSONType(meta)
	resp.SubmittedAt = &now

	ok, err := s.responses.Complete(resp)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResponseCompleted
	}
	resp.Status = model.StatusCompleted
	utilities.Info("response %s submitted", resp.ID)
	if s.bus != nil {
		s.bus.Publish(utilities.EventResponseSubmitted, resp.ID)
	}
	return nil
}

func (s *responseService) load(id string) (*model.Response, *questionnaire.Navigator, error) {
	resp, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	q := resp.Questionnaire
	if q == nil {
		if q, err = s.questionnaires.FindByID(resp.QuestionnaireID); err != nil {
			return nil, nil, fmt.Errorf("load questionnaire of response %s: %w", id, err)
		}
	}
	cfg := q.Config.Data()
	return resp, questionnaire.NewNavigator(&cfg, s.engine), nil
}

// current resolves the stored step. A key the questionnaire no longer
// knows restarts an open session and ends a submitted one.
func (s *responseService) current(resp *model.Response, nav *questionnaire.Navigator) questionnaire.Step {
	if step, ok := nav.Resolve(resp.CurrentStep); ok {
		return step
	}
	if resp.Completed() {
		return nav.End()
	}
	return nav.Start()
}
