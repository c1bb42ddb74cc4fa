package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"rental-backend/internal/cache"
	"rental-backend/internal/services"
)

// MonitoringServer serves the ops dashboard on a side port: host and
// database stats plus a live fleet-state board pushed over websocket.
type MonitoringServer struct {
	db         *pgxpool.Pool
	vehicles   *services.VehicleService
	port       int
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

type DashboardStats struct {
	DatabaseStatus    string  `json:"database_status"`
	ActiveConnections int     `json:"active_connections"`
	ResponseTime      int64   `json:"response_time_ms"`
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryPercent     float64 `json:"memory_percent"`
	MemoryUsed        string  `json:"memory_used"`
	MemoryTotal       string  `json:"memory_total"`
	DiskPercent       float64 `json:"disk_percent"`
	DBSize            string  `json:"db_size"`
	ActiveContracts   int     `json:"active_contracts"`
	OpenMaintenance   int     `json:"open_maintenance"`
}

// boardUpdate is the websocket frame: fleet board plus timestamp.
type boardUpdate struct {
	Type  string               `json:"type"`
	At    time.Time            `json:"at"`
	Board *services.FleetBoard `json:"board"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewMonitoringServer(db *pgxpool.Pool, vehicles *services.VehicleService, port int) *MonitoringServer {
	return &MonitoringServer{
		db:       db,
		vehicles: vehicles,
		port:     port,
		clients:  make(map[*websocket.Conn]bool),
	}
}

func (ms *MonitoringServer) Start() {
	r := mux.NewRouter()

	r.HandleFunc("/api/stats", ms.getStats).Methods("GET")
	r.HandleFunc("/api/board", ms.getBoard).Methods("GET")
	r.HandleFunc("/ws", ms.handleWebSocket)

	go ms.broadcastLoop()

	addr := fmt.Sprintf(":%d", ms.port)
	log.Printf("[Monitoring] Dashboard running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func (ms *MonitoringServer) getStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ms.collectStats())
}

// getBoard serves the fleet board snapshot, Redis-cached for 30s so the
// dashboard polling does not hammer Postgres.
func (ms *MonitoringServer) getBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/json")

	if data, ok := cache.GetCachedFleetBoard(ctx); ok {
		w.Write(data)
		return
	}

	board, err := ms.vehicles.Board(ctx, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data, err := json.Marshal(board)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cache.CacheFleetBoard(ctx, data)
	w.Write(data)
}

func (ms *MonitoringServer) collectStats() DashboardStats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := ms.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	dbStatus := "healthy"
	if err != nil {
		dbStatus = "unhealthy"
	}

	var activeConns int
	ms.db.QueryRow(ctx, "SELECT count(*) FROM pg_stat_activity").Scan(&activeConns)

	var dbSizeBytes int64
	ms.db.QueryRow(ctx, "SELECT pg_database_size(current_database())").Scan(&dbSizeBytes)

	var activeContracts int
	ms.db.QueryRow(ctx, "SELECT count(*) FROM contracts WHERE state = 'active'").Scan(&activeContracts)

	var openMaintenance int
	ms.db.QueryRow(ctx, "SELECT count(*) FROM maintenance_records WHERE status <> 'resolved'").Scan(&openMaintenance)

	cpuPercents, _ := cpu.Percent(time.Second, false)
	cpuPercent := 0.0
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	return DashboardStats{
		DatabaseStatus:    dbStatus,
		ActiveConnections: activeConns,
		ResponseTime:      responseTime,
		CPUPercent:        cpuPercent,
		MemoryPercent:     memStats.UsedPercent,
		MemoryUsed:        formatBytes(memStats.Used),
		MemoryTotal:       formatBytes(memStats.Total),
		DiskPercent:       diskStats.UsedPercent,
		DBSize:            formatBytes(uint64(dbSizeBytes)),
		ActiveContracts:   activeContracts,
		OpenMaintenance:   openMaintenance,
	}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", gb)
}

func (ms *MonitoringServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] WebSocket upgrade failed: %v", err)
		return
	}

	// Push the current board before the client joins the broadcast set, so
	// this write cannot interleave with broadcastLoop writing the same
	// connection.
	if board, err := ms.vehicles.Board(r.Context(), 0); err == nil {
		conn.WriteJSON(boardUpdate{Type: "board", At: time.Now(), Board: board})
	}

	ms.clientsMux.Lock()
	ms.clients[conn] = true
	ms.clientsMux.Unlock()

	// Reader loop only detects disconnects, clients never send data.
	go func() {
		defer func() {
			ms.clientsMux.Lock()
			delete(ms.clients, conn)
			ms.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcastLoop pushes the fleet board to all connected dashboards every
// few seconds.
func (ms *MonitoringServer) broadcastLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ms.clientsMux.Lock()
		n := len(ms.clients)
		ms.clientsMux.Unlock()
		if n == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		board, err := ms.vehicles.Board(ctx, 0)
		cancel()
		if err != nil {
			log.Printf("[Monitoring] Board query failed: %v", err)
			continue
		}
		update := boardUpdate{Type: "board", At: time.Now(), Board: board}

		ms.clientsMux.Lock()
		for conn := range ms.clients {
			if err := conn.WriteJSON(update); err != nil {
				conn.Close()
				delete(ms.clients, conn)
			}
		}
		ms.clientsMux.Unlock()
	}
}
