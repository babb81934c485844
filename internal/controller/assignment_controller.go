package controller

import (
	"course_edu_backend/internal/model"
	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	QuestionPicker    *service.QuestionPicker
	ResultService     *service.ResultService
}

func NewAssignmentController(assignmentService *service.AssignmentService, picker *service.QuestionPicker, resultService *service.ResultService) *AssignmentController {
	return &AssignmentController{
		AssignmentService: assignmentService,
		QuestionPicker:    picker,
		ResultService:     resultService,
	}
}

// AssignmentRequest 作业创建/更新请求
type AssignmentRequest struct {
	Title               string `json:"title" binding:"required"`
	Description         string `json:"description"`
	LessonID            uint   `json:"lesson_id"`
	RandomQuestionCount int    `json:"random_question_count"`
}

// ListByLesson godoc
// @Summary 课时作业列表
// @Tags 作业
// @Produce  json
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/lessons/{id}/assignments [get]
func (c *AssignmentController) ListByLesson(ctx *gin.Context) {
	assignments, err := c.AssignmentService.ListByLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// Get godoc
// @Summary 作业详情
// @Tags 作业
// @Produce  json
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) Get(ctx *gin.Context) {
	assignment, err := c.AssignmentService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Create godoc
// @Summary 创建作业
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AssignmentRequest true "作业信息"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Failure 403 {object} util.Response
// @Router /api/lecturer/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lessonID := req.LessonID
	assignment := &model.Assignment{
		Title:               req.Title,
		Description:         req.Description,
		LessonID:            &lessonID,
		RandomQuestionCount: req.RandomQuestionCount,
	}
	if err := c.AssignmentService.Create(assignment, claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

// Update godoc
// @Summary 更新作业
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Param   body body AssignmentRequest true "作业信息"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/lecturer/assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role, req.Title, req.Description, req.RandomQuestionCount)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Delete godoc
// @Summary 删除作业
// @Description 级联删除作业及其题目与成绩
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lecturer/assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AssignmentService.Delete(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Attempt godoc
// @Summary 领取作业题目
// @Description 每次调用按答案组随机抽取选择题并附上全部填空题
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 404 {object} util.Response "作业不存在或没有题目"
// @Router /api/assignments/{id}/attempt [get]
func (c *AssignmentController) Attempt(ctx *gin.Context) {
	questions, err := c.QuestionPicker.PickForAssignment(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// SubmitScoreRequest 提交成绩请求
type SubmitScoreRequest struct {
	Score *int `json:"score" binding:"required"`
}

// SubmitScore godoc
// @Summary 提交作业成绩
// @Description 仅当新成绩高于已有成绩时覆盖
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Param   body body SubmitScoreRequest true "成绩"
// @Success 200 {object} util.Response{data=model.AssignmentResult}
// @Failure 400 {object} util.Response "成绩超出范围"
// @Router /api/assignments/{id}/score [post]
func (c *AssignmentController) SubmitScore(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ResultService.SubmitAssignmentScore(claims.UserID, util.MustParseUint(ctx.Param("id")), *req.Score)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// MyResult godoc
// @Summary 我的作业成绩
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=model.AssignmentResult}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/result [get]
func (c *AssignmentController) MyResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ResultService.GetAssignmentResult(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Results godoc
// @Summary 作业成绩列表
// @Description 讲师查看全部学生成绩
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=[]repository.ResultEntry}
// @Failure 403 {object} util.Response "作业归属其他讲师"
// @Router /api/lecturer/assignments/{id}/results [get]
func (c *AssignmentController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	entries, err := c.ResultService.ListAssignmentResults(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
