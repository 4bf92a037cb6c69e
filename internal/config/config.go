package config

import (
	"os"
	"strconv"
)

// Config 应用配置
type Config struct {
	Port        string
	DBPath      string
	CSVPath     string // dataset seed file, imported on first boot
	BasemapPath string // pre-projected topology asset (.json or .json.zst)
	JWTSecret   string

	// 地图管线参数
	ZoomMin           float64 // zoom scale extent lower bound
	ZoomMax           float64 // zoom scale extent upper bound
	ZoomStep          float64 // multiplicative step for zoom in/out controls
	CityZoomThreshold float64 // fine-detail mode begins at this zoom

	FisheyeBaseRadius  float64 // lens radius at zoom 1 before scaling
	FisheyeScaleFactor float64 // radius = base / (zoom * scaleFactor)
	FisheyeDistortion  float64 // lens magnification constant, > 0

	// Data-quality heuristics, kept configurable pending product input
	FallbackBufferDeg    float64 // buffer around degenerate 1-2 point groups, ~0.01 deg ≈ 1 km
	UnincorporatedMarker string  // neighbourhood label marking unincorporated areas

	BubbleRadiusMin float64 // bubble pixel radius clamp
	BubbleRadiusMax float64
}

// Load 加载配置
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/listings/listings.db"
	}

	csvPath := os.Getenv("CSV_PATH")
	if csvPath == "" {
		csvPath = "./data/listings/listings.csv"
	}

	basemapPath := os.Getenv("BASEMAP_PATH")
	if basemapPath == "" {
		basemapPath = "./data/basemap/us-states.json.zst"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	return &Config{
		Port:        port,
		DBPath:      dbPath,
		CSVPath:     csvPath,
		BasemapPath: basemapPath,
		JWTSecret:   jwtSecret,

		ZoomMin:           1,
		ZoomMax:           100,
		ZoomStep:          envFloat("ZOOM_STEP", 1.5),
		CityZoomThreshold: envFloat("CITY_ZOOM_THRESHOLD", 4),

		FisheyeBaseRadius:  envFloat("FISHEYE_BASE_RADIUS", 120),
		FisheyeScaleFactor: envFloat("FISHEYE_SCALE_FACTOR", 0.5),
		FisheyeDistortion:  envFloat("FISHEYE_DISTORTION", 3),

		FallbackBufferDeg:    envFloat("FALLBACK_BUFFER_DEG", 0.01),
		UnincorporatedMarker: envString("UNINCORPORATED_MARKER", "Unincorporated Areas"),

		BubbleRadiusMin: envFloat("BUBBLE_RADIUS_MIN", 3),
		BubbleRadiusMax: envFloat("BUBBLE_RADIUS_MAX", 28),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
