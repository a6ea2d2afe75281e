package router

import (
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/yeremiapane/restaurant-seating/cache"
	"github.com/yeremiapane/restaurant-seating/controllers"
	"github.com/yeremiapane/restaurant-seating/middlewares"
	"github.com/yeremiapane/restaurant-seating/seating"
	"github.com/yeremiapane/restaurant-seating/store"
	"gorm.io/gorm"
)

// SetupRouter merakit seluruh endpoint. Dependensi core (store, cache,
// admission) dibuat di main dan di-inject, bukan global.
func SetupRouter(db *gorm.DB, rc *cache.RestaurantCache, st *store.SeatingStore, adm *seating.AdmissionService) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db, rc)
	hoursCtrl := controllers.NewHoursController(db, rc)
	seatingCtrl := controllers.NewSeatingController(adm, st)
	reservationCtrl := controllers.NewReservationController(db, st, rc)
	visitCtrl := controllers.NewVisitController(db, st, rc, adm)

	// Response cache untuk endpoint inventaris yang di-polling kiosk
	responseCache := gocache.New(5*time.Second, time.Minute)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	cached := r.Group("/")
	cached.Use(middlewares.CacheResponse(responseCache, 5*time.Second))
	{
		cached.GET("/tables", tableCtrl.GetAllTables)
		cached.GET("/operating-hours", hoursCtrl.GetOperatingHours)
	}

	// WebSocket untuk display front-desk (token via query param)
	wsGroup := r.Group("/events")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/ws", controllers.EventsHandler)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// WAITING LIST (guest + kiosk)
	auth.POST("/waiting-list/join", seatingCtrl.JoinWaitingList)
	auth.POST("/waiting-list/:code/check-in", seatingCtrl.CheckIn)
	auth.POST("/waiting-list/:code/cancel", seatingCtrl.CancelEntry)
	auth.GET("/waiting-list", seatingCtrl.GetWaitingList)

	// RESERVATIONS
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.POST("/reservations/:code/cancel", reservationCtrl.CancelReservation)
	auth.GET("/reservations", reservationCtrl.GetAllReservations)

	// VISITS
	auth.POST("/visits/:code/finish", visitCtrl.FinishVisit)
	auth.GET("/visits/:code", visitCtrl.GetVisitByCode)
	auth.GET("/visits", visitCtrl.GetAllVisits)

	// TABLE MANAGEMENT (staff/admin); setiap mutasi me-reload cache
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", tableCtrl.ArchiveTable)

	// OPERATING HOURS
	auth.PUT("/operating-hours", hoursCtrl.PutOperatingHours)

	return r
}
