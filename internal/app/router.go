package app

import (
	"course_edu_backend/docs"
	"course_edu_backend/internal/config"
	"course_edu_backend/internal/middleware"
	"course_edu_backend/internal/model"
	"course_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerLecturerRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录对游客开放
		public.GET("/courses", c.course.List)
		public.GET("/courses/:id", c.course.Get)
		public.GET("/courses/:id/lessons", c.lesson.ListByCourse)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.PUT("/profile/password", c.user.ChangePassword)

	rg.POST("/courses/:id/enroll", c.course.Enroll)
	rg.GET("/courses/:id/progress", c.progress.GetByCourse)
	rg.GET("/courses/:id/exam", c.exam.GetByCourse)
	rg.GET("/progress", c.progress.List)
	rg.GET("/results", c.progress.MyResults)

	rg.GET("/lessons/:id", c.lesson.Get)
	rg.GET("/lessons/:id/contents", c.lesson.ListContents)
	rg.GET("/lessons/:id/assignments", c.assignment.ListByLesson)
	rg.POST("/lessons/:id/complete", c.lesson.Complete)

	rg.GET("/assignments/:id", c.assignment.Get)
	rg.GET("/assignments/:id/attempt", c.assignment.Attempt)
	rg.POST("/assignments/:id/score", c.assignment.SubmitScore)
	rg.GET("/assignments/:id/result", c.assignment.MyResult)

	rg.GET("/exams/:id", c.exam.Get)
	rg.GET("/exams/:id/attempt", c.exam.Attempt)
	rg.POST("/exams/:id/score", c.exam.SubmitScore)
	rg.GET("/exams/:id/result", c.exam.MyResult)
}

func (a *App) registerLecturerRoutes(rg *gin.RouterGroup, c *controllers) {
	lecturer := rg.Group("/lecturer")
	lecturer.Use(middleware.RoleMiddleware(model.Lecturer))
	{
		lecturer.GET("/courses", c.course.Mine)
		lecturer.POST("/courses", c.course.Create)
		lecturer.PUT("/courses/:id", c.course.Update)
		lecturer.POST("/courses/:id/avatar", c.course.UploadAvatar)
		lecturer.DELETE("/courses/:id", c.course.Delete)

		lecturer.POST("/lessons", c.lesson.Create)
		lecturer.PUT("/lessons/:id", c.lesson.Update)
		lecturer.DELETE("/lessons/:id", c.lesson.Delete)
		lecturer.POST("/lessons/:id/contents", c.lesson.CreateContent)
		lecturer.PUT("/contents/:id", c.lesson.UpdateContent)
		lecturer.DELETE("/contents/:id", c.lesson.DeleteContent)

		lecturer.POST("/assignments", c.assignment.Create)
		lecturer.PUT("/assignments/:id", c.assignment.Update)
		lecturer.DELETE("/assignments/:id", c.assignment.Delete)
		lecturer.GET("/assignments/:id/questions", c.question.ListByAssignment)
		lecturer.GET("/assignments/:id/results", c.assignment.Results)

		lecturer.POST("/exams", c.exam.Create)
		lecturer.PUT("/exams/:id", c.exam.Update)
		lecturer.DELETE("/exams/:id", c.exam.Delete)
		lecturer.GET("/exams/:id/questions", c.question.ListByExam)
		lecturer.GET("/exams/:id/results", c.exam.Results)

		lecturer.POST("/questions", c.question.Create)
		lecturer.PUT("/questions/:id", c.question.Update)
		lecturer.DELETE("/questions/:id", c.question.Delete)

		lecturer.POST("/media/presign", c.media.Presign)
		lecturer.POST("/media/chunks/init", c.media.InitChunkUpload)
		lecturer.POST("/media/chunks", c.media.UploadChunk)
		lecturer.POST("/media/chunks/complete", c.media.CompleteChunkUpload)
		lecturer.GET("/media/chunks/:identifier", c.media.ChunkProgress)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.List)
		admin.GET("/users/:id", c.user.Get)
		admin.PUT("/users/:id/role", c.user.SetRole)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)
		admin.DELETE("/users/:id", c.user.Delete)
	}
}
