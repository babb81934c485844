package repository

import (
	"course_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Create(progress *model.Progress) error {
	return r.DB.Create(progress).Error
}

func (r *ProgressRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(progress *model.Progress) error {
	return r.DB.Save(progress).Error
}

func (r *ProgressRepository) ListByStudent(studentID uint) ([]model.Progress, error) {
	var progresses []model.Progress
	err := r.DB.Where("student_id = ?", studentID).Find(&progresses).Error
	return progresses, err
}

func (r *ProgressRepository) ListByCourse(courseID uint) ([]model.Progress, error) {
	var progresses []model.Progress
	err := r.DB.Where("course_id = ?", courseID).Find(&progresses).Error
	return progresses, err
}

func (r *ProgressRepository) DeleteByCourse(courseID uint) error {
	return r.DB.Where("course_id = ?", courseID).Delete(&model.Progress{}).Error
}

func (r *ProgressRepository) CreateCompletedLesson(record *model.CompletedLesson) error {
	return r.DB.Create(record).Error
}

func (r *ProgressRepository) HasCompletedLesson(studentID, lessonID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CompletedLesson{}).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Count(&count).Error
	return count > 0, err
}

// CountCompletedInCourse 统计学生在课程内已完成的课时数
func (r *ProgressRepository) CountCompletedInCourse(studentID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CompletedLesson{}).
		Joins("JOIN lessons ON lessons.id = completed_lessons.lesson_id AND lessons.deleted_at IS NULL").
		Where("completed_lessons.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Count(&count).Error
	return count, err
}
