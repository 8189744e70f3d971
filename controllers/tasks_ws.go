package controllers

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/wadepvenga/gerenciador-tarefas-familia/config"
	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
	"github.com/wadepvenga/gerenciador-tarefas-familia/utils"
)

/*────────────────────────── globals ──────────────────────────*/

var (
	taskRooms   = make(map[uint]map[*websocket.Conn]uint) // taskRooms[nucleusID] = map[conn]userID
	taskRoomsMu sync.Mutex
)

/*────────────────────────── helpers ──────────────────────────*/

// безопасная запись в сокет (клиент мог уже закрыть вкладку)
func safeWrite(conn *websocket.Conn, typ int, payload []byte) {
	if err := conn.WriteMessage(typ, payload); err != nil && !websocket.IsCloseError(err) {
		log.Printf("WS write error: %v\n", err)
	}
}

/*────────────────────────── WebSocket ────────────────────────*/

// TaskFeedWS — лента изменений задач ядра: task_created / task_updated / task_deleted
func TaskFeedWS(c *websocket.Conn) {
	/* 1. ─── валидация токена ───────────────────────────────*/
	tokStr := c.Query("token")
	if tokStr == "" {
		c.Close()
		return
	}

	claims, err := utils.ParseAccessToken(tokStr)
	if err != nil {
		c.Close()
		return
	}
	userID, ok := utils.UserIDFromClaims(claims)
	if !ok {
		c.Close()
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil || user.NucleusID == nil {
		c.Close()
		return
	}
	nucleusID := *user.NucleusID

	/* 2. ─── регистрируем соединение ────────────────────────*/
	taskRoomsMu.Lock()
	if taskRooms[nucleusID] == nil {
		taskRooms[nucleusID] = make(map[*websocket.Conn]uint)
	}
	taskRooms[nucleusID][c] = userID
	taskRoomsMu.Unlock()

	/* 3. ─── держим соединение до закрытия ──────────────────*/
	for {
		// Лента односторонняя: входящие сообщения игнорируем
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	/* 4. ─── отключение клиента ────────────────────────────*/
	taskRoomsMu.Lock()
	delete(taskRooms[nucleusID], c)
	taskRoomsMu.Unlock()
}

/*────────────────────────── broadcast ───────────────────────*/

// BroadcastTaskEvent рассылает изменение задачи всем подключенным участникам ядра
func BroadcastTaskEvent(nucleusID uint, eventType string, task models.Task) {
	taskRoomsMu.Lock()
	defer taskRoomsMu.Unlock()

	payload, _ := json.Marshal(struct {
		Type string      `json:"type"`
		Data models.Task `json:"data"`
	}{eventType, task})

	for conn := range taskRooms[nucleusID] {
		safeWrite(conn, websocket.TextMessage, payload)
	}
}
