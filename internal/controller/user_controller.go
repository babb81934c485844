package controller

import (
	"strconv"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// List godoc
// @Summary 用户列表
// @Description 管理员分页查询用户，支持按姓名/邮箱搜索
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Param   keyword query string false "搜索关键字"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	keyword := ctx.Query("keyword")

	users, total, err := c.UserService.List(page, limit, keyword)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary 查询用户
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	user, err := c.UserService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req.Name)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "文件格式不支持"
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	user, err := c.UserService.UpdateAvatar(ctx.Request.Context(), claims.UserID, file)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChangePasswordRequest true "新旧密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "旧密码错误"
// @Router /api/profile/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SetRoleRequest 调整角色请求
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student lecturer admin"`
}

// SetRole godoc
// @Summary 调整用户角色
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Param   body body SetRoleRequest true "角色"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) SetRole(ctx *gin.Context) {
	var req SetRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetRole(util.MustParseUint(ctx.Param("id")), model.UserRole(req.Role))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// SetDisabledRequest 启用/禁用请求
type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetDisabled godoc
// @Summary 启用或禁用账号
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Param   body body SetDisabledRequest true "禁用标记"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/disabled [put]
func (c *UserController) SetDisabled(ctx *gin.Context) {
	var req SetDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetDisabled(util.MustParseUint(ctx.Param("id")), *req.Disabled); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Delete godoc
// @Summary 删除用户
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	if err := c.UserService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
