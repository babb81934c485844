package service

import (
	"errors"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	QuestionRepo   *repository.QuestionRepository
	AssignmentRepo *repository.AssignmentRepository
	ExamRepo       *repository.ExamRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, assignmentRepo *repository.AssignmentRepository, examRepo *repository.ExamRepository) *QuestionService {
	return &QuestionService{
		QuestionRepo:   questionRepo,
		AssignmentRepo: assignmentRepo,
		ExamRepo:       examRepo,
	}
}

// ownerLecturerID 沿题目归属的作业或考试链解析讲师
func (s *QuestionService) ownerLecturerID(question *model.Question) (uint, error) {
	switch {
	case question.AssignmentID != nil:
		return s.AssignmentRepo.LecturerID(*question.AssignmentID)
	case question.ExamID != nil:
		return s.ExamRepo.LecturerID(*question.ExamID)
	default:
		return 0, util.ValidationError("question belongs to neither assignment nor exam")
	}
}

func (s *QuestionService) validate(question *model.Question) error {
	if question.AssignmentID == nil && question.ExamID == nil {
		return util.ValidationError("question must belong to an assignment or an exam")
	}
	if question.AssignmentID != nil && question.ExamID != nil {
		return util.ValidationError("question cannot belong to both an assignment and an exam")
	}
	switch question.Type {
	case model.MultipleChoice:
		if len(question.Choices) == 0 {
			return util.ValidationError("multiple choice question requires choices")
		}
	case model.FillInBlank:
		if question.CorrectText == "" {
			return util.ValidationError("fill in blank question requires correct text")
		}
	default:
		return util.ValidationError("unknown question type")
	}
	return nil
}

func (s *QuestionService) Create(question *model.Question, actorID uint, actorRole model.UserRole) error {
	if err := s.validate(question); err != nil {
		return err
	}
	lecturerID, err := s.ownerLecturerID(question)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("question target")
		}
		return err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return util.ForbiddenError("target belongs to another lecturer")
	}
	return s.QuestionRepo.Create(question)
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("question")
		}
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) ListByAssignment(assignmentID uint) ([]model.Question, error) {
	return s.QuestionRepo.ListByAssignment(assignmentID)
}

func (s *QuestionService) ListByExam(examID uint) ([]model.Question, error) {
	return s.QuestionRepo.ListByExam(examID)
}

func (s *QuestionService) Update(id uint, actorID uint, actorRole model.UserRole, updated *model.Question) (*model.Question, error) {
	question, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	lecturerID, err := s.ownerLecturerID(question)
	if err != nil {
		return nil, err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return nil, util.ForbiddenError("question belongs to another lecturer")
	}

	question.Content = updated.Content
	question.AnswerGroup = updated.AnswerGroup
	question.Choices = updated.Choices
	question.CorrectChoice = updated.CorrectChoice
	question.CorrectText = updated.CorrectText
	if err := s.validate(question); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) Delete(id uint, actorID uint, actorRole model.UserRole) error {
	question, err := s.Get(id)
	if err != nil {
		return err
	}
	lecturerID, err := s.ownerLecturerID(question)
	if err != nil {
		return err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return util.ForbiddenError("question belongs to another lecturer")
	}
	return s.QuestionRepo.Delete(id)
}
