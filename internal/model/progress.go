package model

import "time"

// Progress 学生在某门课程的完成进度，每个(学生,课程)一行
type Progress struct {
	BaseModel
	StudentID      uint    `gorm:"uniqueIndex:uniq_progress_student_course;not null" json:"studentId"`
	CourseID       uint    `gorm:"uniqueIndex:uniq_progress_student_course;not null" json:"courseId"`
	CompletionRate float64 `gorm:"default:0" json:"completionRate"`
	Completed      bool    `gorm:"default:false" json:"completed"`
}

func (Progress) TableName() string {
	return "progresses"
}

// CompletedLesson 存在即表示该学生完成了该课时
type CompletedLesson struct {
	BaseModel
	StudentID   uint      `gorm:"uniqueIndex:uniq_completed_student_lesson;not null" json:"studentId"`
	LessonID    uint      `gorm:"uniqueIndex:uniq_completed_student_lesson;not null" json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (CompletedLesson) TableName() string {
	return "completed_lessons"
}
