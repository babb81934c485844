package repository

import (
	"course_edu_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}

func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Order("created_at asc").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// 内容相关

func (r *LessonRepository) CreateContent(content *model.LessonContent) error {
	return r.DB.Create(content).Error
}

func (r *LessonRepository) FindContentByID(id uint) (*model.LessonContent, error) {
	var content model.LessonContent
	err := r.DB.First(&content, id).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *LessonRepository) UpdateContent(content *model.LessonContent) error {
	return r.DB.Save(content).Error
}

// UpdateContentMediaRef 转码完成后切换媒体引用
func (r *LessonRepository) UpdateContentMediaRef(id uint, mediaRef string) error {
	return r.DB.Model(&model.LessonContent{}).Where("id = ?", id).
		Update("media_ref", mediaRef).Error
}

func (r *LessonRepository) DeleteContent(id uint) error {
	return r.DB.Delete(&model.LessonContent{}, id).Error
}

func (r *LessonRepository) ListContentsByLesson(lessonID uint) ([]model.LessonContent, error) {
	var contents []model.LessonContent
	err := r.DB.Where("lesson_id = ?", lessonID).Order("created_at asc").Find(&contents).Error
	return contents, err
}

func (r *LessonRepository) DeleteCompletedByLesson(lessonID uint) error {
	return r.DB.Where("lesson_id = ?", lessonID).Delete(&model.CompletedLesson{}).Error
}

// LecturerID 通过 Lesson→Course 链查询所属讲师
func (r *LessonRepository) LecturerID(lessonID uint) (uint, error) {
	var lecturerID uint
	err := r.DB.Model(&model.Lesson{}).
		Select("courses.lecturer_id").
		Joins("JOIN courses ON courses.id = lessons.course_id AND courses.deleted_at IS NULL").
		Where("lessons.id = ?", lessonID).
		Scan(&lecturerID).Error
	if err != nil {
		return 0, err
	}
	if lecturerID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return lecturerID, nil
}
