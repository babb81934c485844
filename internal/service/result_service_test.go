package service

import (
	"errors"
	"testing"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/util"
)

type resultFixture struct {
	stack      *testStack
	student    *model.User
	course     *model.Course
	lessons    []*model.Lesson
	assignment *model.Assignment
	exam       *model.Exam
}

func newResultFixture(t *testing.T, lessonCount int) *resultFixture {
	t.Helper()
	s := newTestStack(t)

	lecturer := &model.User{Name: "讲师", Email: "lect@test.dev", Password: "x", Role: model.Lecturer}
	if err := s.repos.user.Create(lecturer); err != nil {
		t.Fatalf("create lecturer: %v", err)
	}
	student := &model.User{Name: "学生", Email: "stud@test.dev", Password: "x", Role: model.Student}
	if err := s.repos.user.Create(student); err != nil {
		t.Fatalf("create student: %v", err)
	}
	course := &model.Course{Title: "测试课程", LecturerID: lecturer.ID}
	if err := s.repos.course.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	f := &resultFixture{stack: s, student: student, course: course}
	for i := 0; i < lessonCount; i++ {
		lesson := &model.Lesson{Title: "课时", CourseID: course.ID}
		if err := s.repos.lesson.Create(lesson); err != nil {
			t.Fatalf("create lesson: %v", err)
		}
		f.lessons = append(f.lessons, lesson)
	}

	if lessonCount > 0 {
		f.assignment = &model.Assignment{Title: "作业", LessonID: uintPtr(f.lessons[0].ID)}
		if err := s.repos.assignment.Create(f.assignment); err != nil {
			t.Fatalf("create assignment: %v", err)
		}
	}
	f.exam = &model.Exam{Title: "考试", CourseID: course.ID}
	if err := s.repos.exam.Create(f.exam); err != nil {
		t.Fatalf("create exam: %v", err)
	}
	return f
}

func TestSubmitAssignmentScoreBestOf(t *testing.T) {
	f := newResultFixture(t, 1)
	svc := f.stack.result

	first, err := svc.SubmitAssignmentScore(f.student.ID, f.assignment.ID, 50)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.Score != 50 {
		t.Fatalf("expected score 50, got %d", first.Score)
	}
	firstSubmitted := first.SubmittedAt

	// 更低的成绩不覆盖
	lower, err := svc.SubmitAssignmentScore(f.student.ID, f.assignment.ID, 40)
	if err != nil {
		t.Fatalf("lower submit: %v", err)
	}
	if lower.Score != 50 {
		t.Fatalf("lower score must not overwrite, got %d", lower.Score)
	}
	if lower.SubmittedAt.Unix() != firstSubmitted.Unix() {
		t.Fatal("lower score must not touch the timestamp")
	}

	// 相同成绩也不覆盖
	same, err := svc.SubmitAssignmentScore(f.student.ID, f.assignment.ID, 50)
	if err != nil {
		t.Fatalf("same submit: %v", err)
	}
	if same.SubmittedAt.Unix() != firstSubmitted.Unix() {
		t.Fatal("equal score must not touch the timestamp")
	}

	// 更高的成绩覆盖成绩与时间
	higher, err := svc.SubmitAssignmentScore(f.student.ID, f.assignment.ID, 70)
	if err != nil {
		t.Fatalf("higher submit: %v", err)
	}
	if higher.Score != 70 {
		t.Fatalf("expected score 70, got %d", higher.Score)
	}

	var count int64
	f.stack.db.Model(&model.AssignmentResult{}).
		Where("student_id = ? AND assignment_id = ?", f.student.ID, f.assignment.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one result row, got %d", count)
	}
}

func TestSubmitScoreOutOfRange(t *testing.T) {
	f := newResultFixture(t, 1)

	if _, err := f.stack.result.SubmitAssignmentScore(f.student.ID, f.assignment.ID, 101); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected validation error for 101, got %v", err)
	}
	if _, err := f.stack.result.SubmitExamScore(f.student.ID, f.exam.ID, -1); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected validation error for -1, got %v", err)
	}
}

func TestSubmitScoreMissingTarget(t *testing.T) {
	f := newResultFixture(t, 1)

	if _, err := f.stack.result.SubmitAssignmentScore(f.student.ID, 9999, 80); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if _, err := f.stack.result.SubmitExamScore(f.student.ID, 9999, 80); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSubmitExamScoreBestOf(t *testing.T) {
	f := newResultFixture(t, 1)

	if _, err := f.stack.result.SubmitExamScore(f.student.ID, f.exam.ID, 60); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	result, err := f.stack.result.SubmitExamScore(f.student.ID, f.exam.ID, 90)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if result.Score != 90 {
		t.Fatalf("expected 90, got %d", result.Score)
	}
}

func TestMarkLessonCompleteRecomputesRate(t *testing.T) {
	f := newResultFixture(t, 4)
	svc := f.stack.result

	progress, err := svc.MarkLessonComplete(f.student.ID, f.course.ID, f.lessons[0].ID)
	if err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	if progress.CompletionRate != 25 {
		t.Fatalf("expected 25%%, got %v", progress.CompletionRate)
	}
	if progress.Completed {
		t.Fatal("course should not be completed yet")
	}

	for _, lesson := range f.lessons[1:] {
		if progress, err = svc.MarkLessonComplete(f.student.ID, f.course.ID, lesson.ID); err != nil {
			t.Fatalf("complete lesson: %v", err)
		}
	}
	if progress.CompletionRate != 100 || !progress.Completed {
		t.Fatalf("expected 100%% completed, got %v / %v", progress.CompletionRate, progress.Completed)
	}
}

func TestMarkLessonCompleteIdempotent(t *testing.T) {
	f := newResultFixture(t, 2)
	svc := f.stack.result

	first, err := svc.MarkLessonComplete(f.student.ID, f.course.ID, f.lessons[0].ID)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	second, err := svc.MarkLessonComplete(f.student.ID, f.course.ID, f.lessons[0].ID)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if first.CompletionRate != second.CompletionRate {
		t.Fatalf("repeat completion changed the rate: %v -> %v", first.CompletionRate, second.CompletionRate)
	}

	var count int64
	f.stack.db.Model(&model.CompletedLesson{}).
		Where("student_id = ? AND lesson_id = ?", f.student.ID, f.lessons[0].ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one completed-lesson row, got %d", count)
	}
}

func TestMarkLessonCompleteWrongCourse(t *testing.T) {
	f := newResultFixture(t, 1)

	other := &model.Course{Title: "另一门课", LecturerID: 1}
	if err := f.stack.repos.course.Create(other); err != nil {
		t.Fatalf("create course: %v", err)
	}

	if _, err := f.stack.result.MarkLessonComplete(f.student.ID, other.ID, f.lessons[0].ID); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProgressRejectsDuplicate(t *testing.T) {
	f := newResultFixture(t, 1)

	if _, err := f.stack.result.CreateProgress(f.student.ID, f.course.ID); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.stack.result.CreateProgress(f.student.ID, f.course.ID); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("duplicate progress should fail with validation, got %v", err)
	}
}

func TestListAssignmentResultsOwnership(t *testing.T) {
	f := newCascadeFixture(t)

	if _, err := f.stack.result.ListAssignmentResults(f.assignment.ID, f.other.ID, model.Lecturer); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("other lecturer should be forbidden, got %v", err)
	}

	entries, err := f.stack.result.ListAssignmentResults(f.assignment.ID, f.lecturer.ID, model.Lecturer)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(entries) != 1 || entries[0].StudentID != f.student.ID {
		t.Fatalf("unexpected entries for owner: %+v", entries)
	}

	if _, err := f.stack.result.ListAssignmentResults(f.assignment.ID, f.other.ID, model.Admin); err != nil {
		t.Fatalf("admin should bypass ownership: %v", err)
	}

	if _, err := f.stack.result.ListAssignmentResults(9999, f.lecturer.ID, model.Lecturer); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("missing assignment should be not found, got %v", err)
	}
}

func TestListExamResultsOwnership(t *testing.T) {
	f := newCascadeFixture(t)

	if _, err := f.stack.result.ListExamResults(f.exam.ID, f.other.ID, model.Lecturer); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("other lecturer should be forbidden, got %v", err)
	}

	entries, err := f.stack.result.ListExamResults(f.exam.ID, f.lecturer.ID, model.Lecturer)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(entries) != 1 || entries[0].StudentID != f.student.ID {
		t.Fatalf("unexpected entries for owner: %+v", entries)
	}

	if _, err := f.stack.result.ListExamResults(f.exam.ID, f.other.ID, model.Admin); err != nil {
		t.Fatalf("admin should bypass ownership: %v", err)
	}

	if _, err := f.stack.result.ListExamResults(9999, f.lecturer.ID, model.Lecturer); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("missing exam should be not found, got %v", err)
	}
}
