package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-seating/cache"
	"github.com/yeremiapane/restaurant-seating/events"
	"github.com/yeremiapane/restaurant-seating/models"
	"github.com/yeremiapane/restaurant-seating/seating"
	"github.com/yeremiapane/restaurant-seating/utils"
	"gorm.io/gorm"
)

type HoursController struct {
	DB    *gorm.DB
	Cache *cache.RestaurantCache
}

func NewHoursController(db *gorm.DB, rc *cache.RestaurantCache) *HoursController {
	return &HoursController{DB: db, Cache: rc}
}

// GetOperatingHours -> jadwal buka per hari
func (hc *HoursController) GetOperatingHours(c *gin.Context) {
	var hours []models.OperatingHour
	if err := hc.DB.Order("weekday ASC").Find(&hours).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Operating hours", hours)
}

// PutOperatingHours mengganti seluruh jadwal sekaligus. Hari yang tidak
// dikirim berarti tutup.
func (hc *HoursController) PutOperatingHours(c *gin.Context) {
	var req struct {
		Hours []struct {
			Weekday  int `json:"weekday" binding:"min=0,max=6"`
			OpensAt  int `json:"opens_at" binding:"min=0,max=1439"`
			ClosesAt int `json:"closes_at" binding:"min=0,max=1440"`
		} `json:"hours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	seen := make(map[int]bool)
	for _, h := range req.Hours {
		if seen[h.Weekday] {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("duplicate weekday %d", h.Weekday))
			return
		}
		seen[h.Weekday] = true
	}

	tx := hc.DB.Begin()
	if err := tx.Where("1 = 1").Delete(&models.OperatingHour{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	hours := make([]models.OperatingHour, 0, len(req.Hours))
	for _, h := range req.Hours {
		hours = append(hours, models.OperatingHour{
			Weekday:  time.Weekday(h.Weekday),
			OpensAt:  h.OpensAt,
			ClosesAt: h.ClosesAt,
		})
	}
	if len(hours) > 0 {
		if err := tx.Create(&hours).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := hc.Cache.Reload(); err != nil {
		utils.ErrorLogger.Printf("CRITICAL: hours committed but cache reload failed: %v", err)
		utils.RespondTag(c, http.StatusInternalServerError,
			seating.StatusInternalError, "cache reload failed after hours update")
		return
	}

	events.BroadcastHoursUpdate(hours)
	utils.InfoLogger.Printf("Operating hours replaced (%d days open)", len(hours))
	utils.RespondJSON(c, http.StatusOK, "Operating hours updated", hours)
}
