package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/util"
)

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }

func mcQuestion(group int, createdAt time.Time) model.Question {
	q := model.Question{
		Content:       "选择题",
		Type:          model.MultipleChoice,
		AnswerGroup:   intPtr(group),
		Choices:       json.RawMessage(`["A","B","C"]`),
		CorrectChoice: 1,
	}
	q.CreatedAt = createdAt
	return q
}

func fibQuestion(createdAt time.Time) model.Question {
	q := model.Question{
		Content:     "填空题",
		Type:        model.FillInBlank,
		CorrectText: "answer",
	}
	q.CreatedAt = createdAt
	return q
}

func countByGroup(questions []model.Question) map[int]int {
	counts := make(map[int]int)
	for _, q := range questions {
		if q.Type == model.MultipleChoice && q.AnswerGroup != nil {
			counts[*q.AnswerGroup]++
		}
	}
	return counts
}

func TestDrawQuestionsEvenQuota(t *testing.T) {
	base := time.Now()
	var questions []model.Question
	// 组1有3题，组2有2题，目标N=4 → 每组抽2题
	for i := 0; i < 3; i++ {
		questions = append(questions, mcQuestion(1, base.Add(time.Duration(i)*time.Second)))
	}
	for i := 0; i < 2; i++ {
		questions = append(questions, mcQuestion(2, base.Add(time.Duration(10+i)*time.Second)))
	}

	picked := DrawQuestions(questions, 4)
	if len(picked) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(picked))
	}
	counts := countByGroup(picked)
	if counts[1] != 2 || counts[2] != 2 {
		t.Fatalf("expected 2 per group, got %v", counts)
	}
}

func TestDrawQuestionsRemainderGoesToFirstGroups(t *testing.T) {
	base := time.Now()
	var questions []model.Question
	for group := 1; group <= 3; group++ {
		for i := 0; i < 5; i++ {
			questions = append(questions, mcQuestion(group, base.Add(time.Duration(group*10+i)*time.Second)))
		}
	}

	// N=4, G=3 → base=1, remainder=1：组1抽2题，组2、组3各1题
	picked := DrawQuestions(questions, 4)
	counts := countByGroup(picked)
	if counts[1] != 2 {
		t.Fatalf("first group should draw base+1=2, got %d", counts[1])
	}
	if counts[2] != 1 || counts[3] != 1 {
		t.Fatalf("remaining groups should draw 1 each, got %v", counts)
	}
}

func TestDrawQuestionsCapsAtGroupSize(t *testing.T) {
	base := time.Now()
	questions := []model.Question{
		mcQuestion(1, base),
		mcQuestion(1, base.Add(time.Second)),
	}

	picked := DrawQuestions(questions, 10)
	if len(picked) != 2 {
		t.Fatalf("quota beyond group size should take whole group, got %d", len(picked))
	}
}

func TestDrawQuestionsIncludesAllFillBlanks(t *testing.T) {
	base := time.Now()
	questions := []model.Question{
		mcQuestion(1, base),
		fibQuestion(base.Add(time.Second)),
		fibQuestion(base.Add(2 * time.Second)),
		fibQuestion(base.Add(3 * time.Second)),
	}

	for run := 0; run < 5; run++ {
		picked := DrawQuestions(questions, 1)
		fib := 0
		for _, q := range picked {
			if q.Type == model.FillInBlank {
				fib++
			}
		}
		if fib != 3 {
			t.Fatalf("run %d: expected all 3 fill-in-blank questions, got %d", run, fib)
		}
	}
}

func TestDrawQuestionsSortedByCreationTime(t *testing.T) {
	base := time.Now()
	questions := []model.Question{
		fibQuestion(base.Add(5 * time.Second)),
		mcQuestion(1, base.Add(2 * time.Second)),
		mcQuestion(2, base.Add(8 * time.Second)),
		fibQuestion(base),
	}

	picked := DrawQuestions(questions, 2)
	for i := 1; i < len(picked); i++ {
		if picked[i].CreatedAt.Before(picked[i-1].CreatedAt) {
			t.Fatalf("output not sorted by creation time at index %d", i)
		}
	}
}

func TestDrawQuestionsHidesOtherTypeAnswerFields(t *testing.T) {
	base := time.Now()
	questions := []model.Question{
		mcQuestion(1, base),
		fibQuestion(base.Add(time.Second)),
	}

	picked := DrawQuestions(questions, 1)
	for _, q := range picked {
		switch q.Type {
		case model.MultipleChoice:
			if q.CorrectText != "" {
				t.Fatal("multiple choice question should not carry fill-in-blank answer")
			}
			if len(q.Choices) == 0 {
				t.Fatal("multiple choice question lost its choices")
			}
		case model.FillInBlank:
			if q.Choices != nil || q.CorrectChoice != 0 {
				t.Fatal("fill-in-blank question should not carry choice fields")
			}
			if q.CorrectText == "" {
				t.Fatal("fill-in-blank question lost its answer text")
			}
		}
	}
}

func TestDrawQuestionsZeroTarget(t *testing.T) {
	base := time.Now()
	questions := []model.Question{
		mcQuestion(1, base),
		fibQuestion(base.Add(time.Second)),
	}

	picked := DrawQuestions(questions, 0)
	if len(picked) != 1 || picked[0].Type != model.FillInBlank {
		t.Fatalf("target 0 should return only fill-in-blank questions, got %d", len(picked))
	}
}

func TestPickForAssignmentNotFound(t *testing.T) {
	s := newTestStack(t)

	if _, err := s.picker.PickForAssignment(999); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestPickForAssignmentEmptyIsNotFound(t *testing.T) {
	s := newTestStack(t)

	lecturer := &model.User{Name: "讲师", Email: "l@test.dev", Password: "x", Role: model.Lecturer}
	if err := s.repos.user.Create(lecturer); err != nil {
		t.Fatalf("create lecturer: %v", err)
	}
	course := &model.Course{Title: "Go 入门", LecturerID: lecturer.ID}
	if err := s.repos.course.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	lesson := &model.Lesson{Title: "第一课", CourseID: course.ID}
	if err := s.repos.lesson.Create(lesson); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	assignment := &model.Assignment{Title: "作业", LessonID: uintPtr(lesson.ID), RandomQuestionCount: 3}
	if err := s.repos.assignment.Create(assignment); err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	if _, err := s.picker.PickForAssignment(assignment.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("empty question set should be not-found, got %v", err)
	}
}

func TestPickForExamDrawsConfiguredCount(t *testing.T) {
	s := newTestStack(t)

	lecturer := &model.User{Name: "讲师", Email: "l2@test.dev", Password: "x", Role: model.Lecturer}
	if err := s.repos.user.Create(lecturer); err != nil {
		t.Fatalf("create lecturer: %v", err)
	}
	course := &model.Course{Title: "Go 进阶", LecturerID: lecturer.ID}
	if err := s.repos.course.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	exam := &model.Exam{Title: "期末考试", CourseID: course.ID, RandomQuestionCount: 4}
	if err := s.repos.exam.Create(exam); err != nil {
		t.Fatalf("create exam: %v", err)
	}

	for group := 1; group <= 2; group++ {
		for i := 0; i < 3; i++ {
			q := mcQuestion(group, time.Now())
			q.ExamID = &exam.ID
			if err := s.repos.question.Create(&q); err != nil {
				t.Fatalf("create question: %v", err)
			}
		}
	}

	picked, err := s.picker.PickForExam(exam.ID)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if len(picked) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(picked))
	}
}
