package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/user/showsense/internal/config"
	"github.com/user/showsense/internal/service"
)

// 一次性导入脚本：删掉旧库文件，按 JSON 数据集全量重建。
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	importer := service.NewImportService(cfg.DBPath, cfg.ShowsJSONPath)
	summary, err := importer.Run()
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	if summary.Errors > 0 {
		log.Printf("导入完成，但有 %d 条记录出错，请检查日志", summary.Errors)
	}
}
