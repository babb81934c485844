package controller

import (
	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ResultService *service.ResultService
}

func NewProgressController(resultService *service.ResultService) *ProgressController {
	return &ProgressController{ResultService: resultService}
}

// List godoc
// @Summary 我的学习进度
// @Description 当前学生全部课程的完成率
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Progress}
// @Router /api/progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progresses, err := c.ResultService.ListProgress(claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progresses)
}

// MyResults godoc
// @Summary 我的成绩总览
// @Description 当前学生全部作业与考试的历史最高分
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudentResults}
// @Router /api/results [get]
func (c *ProgressController) MyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.ResultService.ListStudentResults(claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// GetByCourse godoc
// @Summary 课程学习进度
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Progress}
// @Failure 404 {object} util.Response "未报名该课程"
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) GetByCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ResultService.GetProgress(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
