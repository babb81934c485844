// @title 课程平台后端 API
// @version 1.0
// @description 在线课程平台的后端服务器，提供课程、课时、作业、考试与学习进度管理。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"course_edu_backend/internal/app"
	"course_edu_backend/internal/config"
	"course_edu_backend/pkg/configwatcher"
	"course_edu_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 监听配置文件变更，热加载运行期配置
	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
