package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-seating/cache"
	"github.com/yeremiapane/restaurant-seating/events"
	"github.com/yeremiapane/restaurant-seating/models"
	"github.com/yeremiapane/restaurant-seating/seating"
	"github.com/yeremiapane/restaurant-seating/store"
	"github.com/yeremiapane/restaurant-seating/utils"
	"gorm.io/gorm"
)

type VisitController struct {
	DB        *gorm.DB
	Store     *store.SeatingStore
	Cache     *cache.RestaurantCache
	Admission *seating.AdmissionService
}

func NewVisitController(db *gorm.DB, st *store.SeatingStore, rc *cache.RestaurantCache, adm *seating.AdmissionService) *VisitController {
	return &VisitController{DB: db, Store: st, Cache: rc, Admission: adm}
}

// FinishVisit -> pembayaran selesai, meja dibebaskan. Ini jalur
// seat-release: meja yang bebas langsung ditawarkan ke antrean.
func (vc *VisitController) FinishVisit(c *gin.Context) {
	code := c.Param("code")

	visit, err := vc.Store.FinishVisitAndFreeTable(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondTag(c, http.StatusInternalServerError,
			seating.StatusInternalError, err.Error())
		return
	}

	if err := vc.Cache.Reload(); err != nil {
		utils.ErrorLogger.Printf("CRITICAL: visit %s finished but cache reload failed: %v", code, err)
		utils.RespondTag(c, http.StatusInternalServerError,
			seating.StatusInternalError, "cache reload failed after visit finish")
		return
	}

	events.BroadcastVisitFinished(*visit)
	utils.InfoLogger.Printf("Visit %s finished, table %d freed", code, visit.TableID)

	if err := vc.Admission.OfferTable(visit.TableID, time.Now()); err != nil {
		utils.ErrorLogger.Printf("Failed to offer freed table %d: %v", visit.TableID, err)
	}

	utils.RespondJSON(c, http.StatusOK, seating.StatusUpdateSuccess, visit)
}

// GetVisitByCode -> detail kunjungan
func (vc *VisitController) GetVisitByCode(c *gin.Context) {
	code := c.Param("code")
	visit, err := vc.Store.GetVisit(code)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Visit detail", visit)
}

// GetAllVisits -> untuk staff, filter status opsional
func (vc *VisitController) GetAllVisits(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "staff" && roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	q := vc.DB.Order("started_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var visits []models.Visit
	if err := q.Find(&visits).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of visits", visits)
}
