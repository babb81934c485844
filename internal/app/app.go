package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course_edu_backend/internal/config"
	"course_edu_backend/internal/controller"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"
	"course_edu_backend/pkg/database"
	"course_edu_backend/pkg/logger"
	"course_edu_backend/pkg/monitoring"
	"course_edu_backend/pkg/security"
	"course_edu_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	lesson     *repository.LessonRepository
	assignment *repository.AssignmentRepository
	exam       *repository.ExamRepository
	question   *repository.QuestionRepository
	result     *repository.ResultRepository
	progress   *repository.ProgressRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	cdn        *service.CDNService
	mail       *service.MailService
	media      *service.MediaService
	course     *service.CourseService
	lesson     *service.LessonService
	assignment *service.AssignmentService
	exam       *service.ExamService
	question   *service.QuestionService
	picker     *service.QuestionPicker
	result     *service.ResultService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	course     *controller.CourseController
	lesson     *controller.LessonController
	assignment *controller.AssignmentController
	exam       *controller.ExamController
	question   *controller.QuestionController
	progress   *controller.ProgressController
	media      *controller.MediaController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		lesson:     repository.NewLessonRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		exam:       repository.NewExamRepository(db),
		question:   repository.NewQuestionRepository(db),
		result:     repository.NewResultRepository(db),
		progress:   repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.cdn = service.NewCDNService(cfg)
	s.mail = service.NewMailService(cfg, logger.Log)
	s.media = service.NewMediaService(s.storage, s.cdn, s.mail, rdb, cfg, logger.Log)

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.media)

	s.assignment = service.NewAssignmentService(repos.assignment, repos.lesson, logger.Log)
	s.exam = service.NewExamService(repos.exam, repos.course, logger.Log)
	s.lesson = service.NewLessonService(repos.lesson, repos.course, repos.assignment, s.assignment, s.media, logger.Log)
	s.course = service.NewCourseService(repos.course, repos.lesson, repos.exam, repos.progress, s.lesson, s.exam, s.media, logger.Log)

	s.question = service.NewQuestionService(repos.question, repos.assignment, repos.exam)
	s.picker = service.NewQuestionPicker(repos.question, repos.assignment, repos.exam)
	s.result = service.NewResultService(db, repos.result, repos.progress, repos.lesson, repos.assignment, repos.exam)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		course:     controller.NewCourseController(s.course, s.result, s.media, s.cdn),
		lesson:     controller.NewLessonController(s.lesson, s.result, s.media, s.cdn),
		assignment: controller.NewAssignmentController(s.assignment, s.picker, s.result),
		exam:       controller.NewExamController(s.exam, s.picker, s.result),
		question:   controller.NewQuestionController(s.question),
		progress:   controller.NewProgressController(s.result),
		media:      controller.NewMediaController(s.media),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		logger.Log.Info("Migration finished, exiting")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Transcode.Enabled {
		if version, err := util.GetFFmpegVersion(); err != nil {
			logger.Log.Warn("ffmpeg not available, disabling transcode", zap.Error(err))
			cfg.Transcode.Enabled = false
		} else {
			logger.Log.Info("ffmpeg detected", zap.String("version", version))
		}
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// ApplyConfig 热加载配置，仅替换运行期读取的配置项
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.JWT = cfg.JWT
	a.Config.RateLimit = cfg.RateLimit
	a.Config.CDN = cfg.CDN
	a.Config.Transcode = cfg.Transcode
	a.Config.Mail = cfg.Mail
	logger.Log.Info("配置已热加载")
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
