package repository

import (
	"course_edu_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(assignment *model.Assignment) error {
	return r.DB.Create(assignment).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.DB.First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Update(assignment *model.Assignment) error {
	return r.DB.Save(assignment).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Assignment{}, id).Error
}

func (r *AssignmentRepository) ListByLesson(lessonID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("lesson_id = ?", lessonID).Order("created_at asc").Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) DeleteQuestions(assignmentID uint) error {
	return r.DB.Where("assignment_id = ?", assignmentID).Delete(&model.Question{}).Error
}

func (r *AssignmentRepository) DeleteResults(assignmentID uint) error {
	return r.DB.Where("assignment_id = ?", assignmentID).Delete(&model.AssignmentResult{}).Error
}

// LecturerID 通过 Assignment→Lesson→Course 链查询所属讲师
func (r *AssignmentRepository) LecturerID(assignmentID uint) (uint, error) {
	var lecturerID uint
	err := r.DB.Model(&model.Assignment{}).
		Select("courses.lecturer_id").
		Joins("JOIN lessons ON lessons.id = assignments.lesson_id AND lessons.deleted_at IS NULL").
		Joins("JOIN courses ON courses.id = lessons.course_id AND courses.deleted_at IS NULL").
		Where("assignments.id = ?", assignmentID).
		Scan(&lecturerID).Error
	if err != nil {
		return 0, err
	}
	if lecturerID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return lecturerID, nil
}
