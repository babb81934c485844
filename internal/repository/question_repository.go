package repository

import (
	"course_edu_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// ListByAssignment 按创建时间升序返回作业全部题目
func (r *QuestionRepository) ListByAssignment(assignmentID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) ListByExam(examID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("exam_id = ?", examID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountByAssignment(assignmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error
	return count, err
}

func (r *QuestionRepository) CountByExam(examID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).
		Where("exam_id = ?", examID).
		Count(&count).Error
	return count, err
}
