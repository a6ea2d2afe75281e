package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-seating/cache"
	"github.com/yeremiapane/restaurant-seating/router"
	"github.com/yeremiapane/restaurant-seating/seating"
	"github.com/yeremiapane/restaurant-seating/store"
	"github.com/yeremiapane/restaurant-seating/utils"
)

// setupIntegration merakit aplikasi lengkap di atas SQLite in-memory,
// persis seperti wiring di main.
func setupIntegration(t *testing.T) *gin.Engine {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	autoMigrate(db)

	st := store.NewSeatingStore(db)
	rc := cache.NewRestaurantCache(db)
	require.NoError(t, rc.Load())

	ev := seating.NewEvaluator(st)
	adm := seating.NewAdmissionService(st, rc, ev)
	sched := seating.NewNoShowScheduler(st, adm)
	adm.UseScheduler(sched)

	return router.SetupRouter(db, rc, st, adm)
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a *apiClient) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		buf = bytes.NewBuffer(payload)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &response)
	}
	return w, response
}

// registerAndLogin -> buat user dan return JWT-nya
func (a *apiClient) registerAndLogin(name, email, role string) string {
	a.t.Helper()

	w, _ := a.do("POST", "/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code)

	w, response := a.do("POST", "/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(a.t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(a.t, token)
	return token
}

// Alur lengkap front-desk: setup restoran, walk-in duduk langsung,
// antrean fair, meja bebas dipanggil ke antrean, check-in.
func TestSeatingLifecycle(t *testing.T) {
	api := &apiClient{t: t, router: setupIntegration(t)}

	admin := api.registerAndLogin("Admin", "admin@example.com", "admin")
	alice := api.registerAndLogin("Alice", "alice@example.com", "guest")
	bob := api.registerAndLogin("Bob", "bob@example.com", "guest")
	carol := api.registerAndLogin("Carol", "carol@example.com", "guest")

	// Buka 24 jam supaya test tidak tergantung jam dinding
	hours := make([]map[string]int, 0, 7)
	for wd := 0; wd < 7; wd++ {
		hours = append(hours, map[string]int{
			"weekday": wd, "opens_at": 0, "closes_at": 1440,
		})
	}
	w, _ := api.do("PUT", "/api/operating-hours", admin, map[string]interface{}{"hours": hours})
	require.Equal(t, http.StatusOK, w.Code)

	// Dua meja: kecil (4) dan besar (8)
	w, response := api.do("POST", "/api/tables", admin, map[string]interface{}{
		"table_number": "T1", "capacity": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	smallID := response["data"].(map[string]interface{})["id"].(float64)

	w, _ = api.do("POST", "/api/tables", admin, map[string]interface{}{
		"table_number": "T2", "capacity": 8,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Alice (3 orang) -> langsung duduk di meja terkecil yang cukup
	w, response = api.do("POST", "/api/waiting-list/join", alice, map[string]int{"party_size": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UPDATE_SUCCESS", response["message"])
	aliceData := response["data"].(map[string]interface{})
	aliceCode := aliceData["confirmation_code"].(string)
	assert.Equal(t, smallID, aliceData["table_id"])

	// Bob (10 orang) -> tidak ada meja yang muat, masuk antrean
	w, response = api.do("POST", "/api/waiting-list/join", bob, map[string]int{"party_size": 10})
	require.Equal(t, http.StatusOK, w.Code)
	bobData := response["data"].(map[string]interface{})
	assert.Nil(t, bobData["table_id"])

	// Carol (2 orang) -> meja besar masih kosong, tapi Bob duluan:
	// fairness menahan Carol di antrean
	w, response = api.do("POST", "/api/waiting-list/join", carol, map[string]int{"party_size": 2})
	require.Equal(t, http.StatusOK, w.Code)
	carolData := response["data"].(map[string]interface{})
	assert.Nil(t, carolData["table_id"])
	carolCode := carolData["confirmation_code"].(string)

	// Join kedua Carol ditolak selama entri pertamanya masih hidup
	w, response = api.do("POST", "/api/waiting-list/join", carol, map[string]int{"party_size": 2})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_IN_LIST", response["message"])

	// Antrean untuk staff: Bob lalu Carol
	w, response = api.do("GET", "/api/waiting-list", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue := response["data"].([]interface{})
	require.Len(t, queue, 2)
	assert.Equal(t, float64(10), queue[0].(map[string]interface{})["guest_count"])
	assert.Equal(t, float64(2), queue[1].(map[string]interface{})["guest_count"])

	// Alice selesai -> meja kecil bebas. Bob tidak muat di kapasitas 4,
	// jadi tawaran jatuh ke Carol.
	w, _ = api.do("POST", fmt.Sprintf("/api/visits/%s/finish", aliceCode), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response = api.do("GET", "/api/waiting-list", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue = response["data"].([]interface{})
	require.Len(t, queue, 2)
	carolEntry := queue[1].(map[string]interface{})
	assert.Equal(t, "notified", carolEntry["status"])
	assert.Equal(t, smallID, carolEntry["offered_table_id"])

	// Carol check-in -> duduk di meja yang ditawarkan
	w, response = api.do("POST", fmt.Sprintf("/api/waiting-list/%s/check-in", carolCode), carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	visit := response["data"].(map[string]interface{})
	assert.Equal(t, smallID, visit["table_id"])
	assert.Equal(t, carolCode, visit["confirmation_code"])

	// Entri Carol sudah terminal; hanya Bob yang tersisa di antrean
	w, response = api.do("GET", "/api/waiting-list", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue = response["data"].([]interface{})
	require.Len(t, queue, 1)
	assert.Equal(t, "waiting", queue[0].(map[string]interface{})["status"])
	assert.Equal(t, float64(10), queue[0].(map[string]interface{})["guest_count"])
}

func TestJoinRequiresAuthentication(t *testing.T) {
	api := &apiClient{t: t, router: setupIntegration(t)}

	w, _ := api.do("POST", "/api/waiting-list/join", "", map[string]int{"party_size": 2})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
