package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/util"
)

// cascadeFixture 构建一门带课时、内容、作业、考试、成绩与进度的完整课程
type cascadeFixture struct {
	stack      *testStack
	lecturer   *model.User
	other      *model.User
	student    *model.User
	course     *model.Course
	lesson     *model.Lesson
	contents   []*model.LessonContent
	assignment *model.Assignment
	exam       *model.Exam
}

func newCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()
	s := newTestStack(t)
	f := &cascadeFixture{stack: s}

	f.lecturer = &model.User{Name: "讲师", Email: "owner@test.dev", Password: "x", Role: model.Lecturer}
	f.other = &model.User{Name: "别的讲师", Email: "other@test.dev", Password: "x", Role: model.Lecturer}
	f.student = &model.User{Name: "学生", Email: "student@test.dev", Password: "x", Role: model.Student}
	for _, u := range []*model.User{f.lecturer, f.other, f.student} {
		if err := s.repos.user.Create(u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	f.course = &model.Course{
		Title:      "完整课程",
		LecturerID: f.lecturer.ID,
		Avatar:     "http://cdn.test/courses/cover.png",
	}
	if err := s.repos.course.Create(f.course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	f.lesson = &model.Lesson{Title: "课时", CourseID: f.course.ID}
	if err := s.repos.lesson.Create(f.lesson); err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	f.contents = []*model.LessonContent{
		{LessonID: f.lesson.ID, MediaType: model.MediaText, Text: "纯文本"},
		{LessonID: f.lesson.ID, MediaType: model.MediaImage, MediaRef: "http://cdn.test/contents/pic.png"},
		{LessonID: f.lesson.ID, MediaType: model.MediaVideo, MediaRef: "videos/abc/hls/index.m3u8"},
	}
	for _, content := range f.contents {
		if err := s.repos.lesson.CreateContent(content); err != nil {
			t.Fatalf("create content: %v", err)
		}
	}

	assignment := &model.Assignment{Title: "作业", LessonID: uintPtr(f.lesson.ID), RandomQuestionCount: 2}
	f.assignment = assignment
	if err := s.repos.assignment.Create(assignment); err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	for i := 0; i < 3; i++ {
		q := mcQuestion(1, time.Now())
		q.AssignmentID = &assignment.ID
		if err := s.repos.question.Create(&q); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	if _, err := s.result.SubmitAssignmentScore(f.student.ID, assignment.ID, 80); err != nil {
		t.Fatalf("submit assignment score: %v", err)
	}

	exam := &model.Exam{Title: "考试", CourseID: f.course.ID, RandomQuestionCount: 1}
	f.exam = exam
	if err := s.repos.exam.Create(exam); err != nil {
		t.Fatalf("create exam: %v", err)
	}
	eq := fibQuestion(time.Now())
	eq.ExamID = &exam.ID
	if err := s.repos.question.Create(&eq); err != nil {
		t.Fatalf("create exam question: %v", err)
	}
	if _, err := s.result.SubmitExamScore(f.student.ID, exam.ID, 90); err != nil {
		t.Fatalf("submit exam score: %v", err)
	}

	if _, err := s.result.CreateProgress(f.student.ID, f.course.ID); err != nil {
		t.Fatalf("create progress: %v", err)
	}
	if _, err := s.result.MarkLessonComplete(f.student.ID, f.course.ID, f.lesson.ID); err != nil {
		t.Fatalf("mark lesson complete: %v", err)
	}

	return f
}

func countRows(t *testing.T, f *cascadeFixture, value interface{}) int64 {
	t.Helper()
	var count int64
	if err := f.stack.db.Model(value).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}

func TestDeleteCourseRemovesEverything(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()

	if err := f.stack.course.Delete(ctx, f.course.ID, f.lecturer.ID, model.Lecturer); err != nil {
		t.Fatalf("delete course: %v", err)
	}

	for name, value := range map[string]interface{}{
		"courses":           &model.Course{},
		"lessons":           &model.Lesson{},
		"lesson contents":   &model.LessonContent{},
		"assignments":       &model.Assignment{},
		"exams":             &model.Exam{},
		"questions":         &model.Question{},
		"assignment scores": &model.AssignmentResult{},
		"exam scores":       &model.ExamResult{},
		"progresses":        &model.Progress{},
		"completed lessons": &model.CompletedLesson{},
	} {
		if count := countRows(t, f, value); count != 0 {
			t.Fatalf("%s not fully removed, %d rows remain", name, count)
		}
	}
}

func TestDeleteCourseTwiceIsNotFound(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()

	if err := f.stack.course.Delete(ctx, f.course.ID, f.lecturer.ID, model.Lecturer); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := f.stack.course.Delete(ctx, f.course.ID, f.lecturer.ID, model.Lecturer); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("second delete should be not-found, got %v", err)
	}
}

func TestDeleteCourseWrongLecturerIsForbidden(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()

	err := f.stack.course.Delete(ctx, f.course.ID, f.other.ID, model.Lecturer)
	if !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	// 校验失败必须发生在任何删除之前
	if count := countRows(t, f, &model.Lesson{}); count != 1 {
		t.Fatalf("forbidden delete must not mutate, %d lessons remain", count)
	}
}

func TestDeleteCourseAdminBypassesOwnership(t *testing.T) {
	f := newCascadeFixture(t)

	admin := &model.User{Name: "管理员", Email: "admin@test.dev", Password: "x", Role: model.Admin}
	if err := f.stack.repos.user.Create(admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if err := f.stack.course.Delete(context.Background(), f.course.ID, admin.ID, model.Admin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestDeleteCourseCleansRemoteMedia(t *testing.T) {
	f := newCascadeFixture(t)

	if err := f.stack.course.Delete(context.Background(), f.course.ID, f.lecturer.ID, model.Lecturer); err != nil {
		t.Fatalf("delete course: %v", err)
	}

	// m3u8 清单引用删除整个目录前缀
	foundDir := false
	for _, prefix := range f.stack.storage.deletedDirs {
		if prefix == "videos/abc/hls/" {
			foundDir = true
		}
	}
	if !foundDir {
		t.Fatalf("expected HLS directory prefix deletion, got %v", f.stack.storage.deletedDirs)
	}

	// 图片和课程封面按单对象删除
	wantKeys := map[string]bool{"contents/pic.png": false, "courses/cover.png": false}
	for _, key := range f.stack.storage.deleted {
		if _, ok := wantKeys[key]; ok {
			wantKeys[key] = true
		}
	}
	for key, seen := range wantKeys {
		if !seen {
			t.Fatalf("expected remote delete of %q, got %v", key, f.stack.storage.deleted)
		}
	}
}

func TestDeleteContentRemoteFailureIsBestEffort(t *testing.T) {
	f := newCascadeFixture(t)
	f.stack.storage.failDeletes = true

	// 远端删除失败不阻塞内容行删除
	videoContent := f.contents[2]
	if err := f.stack.lesson.DeleteContent(context.Background(), videoContent.ID, f.lecturer.ID, model.Lecturer); err != nil {
		t.Fatalf("delete content should succeed despite remote failure: %v", err)
	}

	if count := countRows(t, f, &model.LessonContent{}); count != 2 {
		t.Fatalf("expected 2 remaining contents, got %d", count)
	}
}

func TestDeleteLessonRemovesChildren(t *testing.T) {
	f := newCascadeFixture(t)

	if err := f.stack.lesson.Delete(context.Background(), f.lesson.ID, f.lecturer.ID, model.Lecturer); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}

	for name, value := range map[string]interface{}{
		"lessons":           &model.Lesson{},
		"lesson contents":   &model.LessonContent{},
		"assignments":       &model.Assignment{},
		"completed lessons": &model.CompletedLesson{},
		"assignment scores": &model.AssignmentResult{},
	} {
		if count := countRows(t, f, value); count != 0 {
			t.Fatalf("%s not removed with lesson, %d rows remain", name, count)
		}
	}

	// 考试和课程不属于课时，必须保留
	if count := countRows(t, f, &model.Exam{}); count != 1 {
		t.Fatalf("exam must survive lesson deletion, got %d", count)
	}
	if count := countRows(t, f, &model.Course{}); count != 1 {
		t.Fatalf("course must survive lesson deletion, got %d", count)
	}
}

func TestDeleteAssignmentNamesFailingResource(t *testing.T) {
	f := newCascadeFixture(t)

	err := f.stack.assignment.Delete(9999, f.lecturer.ID, model.Lecturer)
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected not-found for missing assignment, got %v", err)
	}
}

func TestCascadeErrorNamesChild(t *testing.T) {
	inner := errors.New("boom")
	err := &util.CascadeError{Resource: "lesson content", ID: 42, Err: inner}

	if got := err.Error(); got != "failed to delete lesson content 42: boom" {
		t.Fatalf("unexpected cascade error text: %q", got)
	}
	if !errors.Is(err, inner) {
		t.Fatal("cascade error must unwrap to the inner error")
	}
}

func TestDeleteLessonAbortsWhenContentDeleteFails(t *testing.T) {
	f := newCascadeFixture(t)

	// 用触发器让第一条内容的软删除失败，模拟删到一半的数据库故障
	trigger := fmt.Sprintf(
		"CREATE TRIGGER lock_content BEFORE UPDATE OF deleted_at ON lesson_contents WHEN NEW.id = %d BEGIN SELECT RAISE(ABORT, 'content locked'); END",
		f.contents[0].ID,
	)
	if err := f.stack.db.Exec(trigger).Error; err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	err := f.stack.lesson.Delete(context.Background(), f.lesson.ID, f.lecturer.ID, model.Lecturer)
	if err == nil {
		t.Fatal("delete should fail when a content row cannot be removed")
	}
	var cascadeErr *util.CascadeError
	if !errors.As(err, &cascadeErr) {
		t.Fatalf("expected cascade error, got %v", err)
	}
	if cascadeErr.Resource != "lesson content" || cascadeErr.ID != f.contents[0].ID {
		t.Fatalf("cascade error should name the failing content, got %+v", cascadeErr)
	}

	// 课时行必须还在，不能留下指向已删课时的孤儿内容
	if count := countRows(t, f, &model.Lesson{}); count != 1 {
		t.Fatalf("lesson should survive aborted delete, %d rows remain", count)
	}
}
