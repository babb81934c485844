package model

type MediaType string

const (
	MediaText  MediaType = "text"
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title    string `gorm:"size:200;not null" json:"title"`
	CourseID uint   `gorm:"index;not null" json:"courseId"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonContent 课时内容：纯文本、图片或视频
// 图片的 MediaRef 是完整访问 URL，视频的 MediaRef 是对象存储键
type LessonContent struct {
	BaseModel
	LessonID  uint      `gorm:"index;not null" json:"lessonId"`
	MediaType MediaType `gorm:"size:20;not null" json:"mediaType"`
	MediaRef  string    `gorm:"size:512" json:"mediaRef"`
	Text      string    `gorm:"type:text" json:"text"`
}

func (LessonContent) TableName() string {
	return "lesson_contents"
}
