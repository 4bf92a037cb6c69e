package main

import (
	"log"

	"github.com/staymap/staymap-backend-go/internal/api"
	"github.com/staymap/staymap-backend-go/internal/basemap"
	"github.com/staymap/staymap-backend-go/internal/config"
	"github.com/staymap/staymap-backend-go/internal/database"
	"github.com/staymap/staymap-backend-go/internal/projection"
	"github.com/staymap/staymap-backend-go/internal/repository"
	"github.com/staymap/staymap-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// 导入房源数据
	if err := database.SeedFromCSV(db, cfg.CSVPath); err != nil {
		log.Fatal("Failed to seed listings:", err)
	}

	// 初始化地图管线
	listingRepo := repository.NewListingRepository(db)
	proj := projection.NewAlbersUSA()
	mapService := service.NewMapService(cfg, listingRepo, proj)
	basemapStore := basemap.NewStore(cfg.BasemapPath)

	// 初始化路由
	router := api.SetupRouter(cfg, mapService, basemapStore)

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
