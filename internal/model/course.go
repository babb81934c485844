package model

type CourseDifficulty string

const (
	Beginner     CourseDifficulty = "beginner"
	Intermediate CourseDifficulty = "intermediate"
	Advanced     CourseDifficulty = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title       string           `gorm:"size:200;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Price       float64          `gorm:"default:0" json:"price"`
	Difficulty  CourseDifficulty `gorm:"size:20;default:'beginner'" json:"difficulty"`
	Keywords    string           `gorm:"size:255" json:"keywords"`
	Avatar      string           `gorm:"size:512" json:"avatar"` // 课程封面的存储引用
	LecturerID  uint             `gorm:"index;not null" json:"lecturerId"`
}

func (Course) TableName() string {
	return "courses"
}
