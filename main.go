package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-seating/cache"
	"github.com/yeremiapane/restaurant-seating/config"
	"github.com/yeremiapane/restaurant-seating/middlewares"
	"github.com/yeremiapane/restaurant-seating/models"
	"github.com/yeremiapane/restaurant-seating/router"
	"github.com/yeremiapane/restaurant-seating/seating"
	"github.com/yeremiapane/restaurant-seating/store"
	"github.com/yeremiapane/restaurant-seating/utils"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Core seating: store -> cache -> evaluator -> admission -> scheduler
	st := store.NewSeatingStore(db)
	rc := cache.NewRestaurantCache(db)
	if err := rc.Load(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to load restaurant cache: %v", err)
	}

	ev := seating.NewEvaluator(st)
	adm := seating.NewAdmissionService(st, rc, ev)
	sched := seating.NewNoShowScheduler(st, adm)
	adm.UseScheduler(sched)

	sched.Start()
	defer sched.Stop()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, rc, st, adm)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.OperatingHour{},
		&models.Reservation{},
		&models.Bill{},
		&models.Visit{},
		&models.WaitingListEntry{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
