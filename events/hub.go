package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-seating/models"
)

// Event types untuk display front-desk / waiting area
const (
	EventTableCreate       = "table_create"
	EventTableUpdate       = "table_update"
	EventTableArchived     = "table_archived"
	EventWaitlistJoined    = "waitlist_joined"
	EventWaitlistNotified  = "waitlist_notified"
	EventWaitlistCancelled = "waitlist_cancelled"
	EventWaitlistNoShow    = "waitlist_noshow"
	EventVisitStarted      = "visit_started"
	EventVisitFinished     = "visit_finished"
	EventHoursUpdate       = "hours_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client display (host stand, waiting area, admin)
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

func BroadcastTableArchived(tableID uint) {
	broadcast(Message{Event: EventTableArchived, Data: map[string]interface{}{
		"table_id": tableID,
	}})
}

func BroadcastWaitlistJoined(entry models.WaitingListEntry) {
	broadcast(Message{Event: EventWaitlistJoined, Data: entry})
}

// BroadcastWaitlistNotified -> party dipanggil ke meja yang dibebaskan
func BroadcastWaitlistNotified(entry models.WaitingListEntry, tableID uint) {
	broadcast(Message{Event: EventWaitlistNotified, Data: map[string]interface{}{
		"entry":    entry,
		"table_id": tableID,
	}})
}

func BroadcastWaitlistCancelled(code string) {
	broadcast(Message{Event: EventWaitlistCancelled, Data: map[string]interface{}{
		"confirmation_code": code,
	}})
}

func BroadcastWaitlistNoShow(code string, tableID uint) {
	broadcast(Message{Event: EventWaitlistNoShow, Data: map[string]interface{}{
		"confirmation_code": code,
		"table_id":          tableID,
	}})
}

func BroadcastVisitStarted(visit models.Visit) {
	broadcast(Message{Event: EventVisitStarted, Data: visit})
}

func BroadcastVisitFinished(visit models.Visit) {
	broadcast(Message{Event: EventVisitFinished, Data: visit})
}

func BroadcastHoursUpdate(hours []models.OperatingHour) {
	broadcast(Message{Event: EventHoursUpdate, Data: hours})
}

// broadcast -> kirim pesan ke semua client terdaftar
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
