package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-seating/cache"
	"github.com/yeremiapane/restaurant-seating/events"
	"github.com/yeremiapane/restaurant-seating/models"
	"github.com/yeremiapane/restaurant-seating/seating"
	"github.com/yeremiapane/restaurant-seating/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB    *gorm.DB
	Cache *cache.RestaurantCache
}

func NewTableController(db *gorm.DB, rc *cache.RestaurantCache) *TableController {
	return &TableController{DB: db, Cache: rc}
}

// reloadAfterMutation dipanggil sinkron setelah setiap perubahan
// struktural. Gagal reload setelah commit berarti store dan cache
// divergen: internal error, bukan sukses.
func (tc *TableController) reloadAfterMutation(c *gin.Context, what string) bool {
	if err := tc.Cache.Reload(); err != nil {
		utils.ErrorLogger.Printf("CRITICAL: %s committed but cache reload failed: %v", what, err)
		utils.RespondTag(c, http.StatusInternalServerError,
			seating.StatusInternalError,
			fmt.Sprintf("cache reload failed after %s", what))
		return false
	}
	return true
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      models.TableAvailable,
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if !tc.reloadAfterMutation(c, "table create") {
		return
	}

	events.BroadcastTableCreate(table)
	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> seluruh meja non-arsip
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Where("status <> ?", models.TableArchived).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> ubah nomor/kapasitas meja
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var body struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if table.Status == models.TableArchived {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table is archived"))
		return
	}

	if body.TableNumber != nil {
		table.TableNumber = *body.TableNumber
	}
	if body.Capacity != nil {
		if *body.Capacity < 1 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("capacity must be at least 1"))
			return
		}
		table.Capacity = *body.Capacity
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if !tc.reloadAfterMutation(c, "table update") {
		return
	}

	events.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d updated (capacity=%d)", table.ID, table.Capacity)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// ArchiveTable -> meja tidak pernah dihapus selama masih dirujuk visit;
// diarsip saja supaya referensi historis tetap valid.
func (tc *TableController) ArchiveTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table

	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if table.Status == models.TableOccupied {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table is currently occupied"))
		return
	}

	table.Status = models.TableArchived
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if !tc.reloadAfterMutation(c, "table archive") {
		return
	}

	events.BroadcastTableArchived(table.ID)
	utils.InfoLogger.Printf("Table %d archived", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table archived", gin.H{
		"id": table.ID,
	})
}
