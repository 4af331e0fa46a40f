package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/rapid-dispatch/internal/booking"
	"github.com/example/rapid-dispatch/internal/config"
	"github.com/example/rapid-dispatch/internal/dispatch"
	"github.com/example/rapid-dispatch/internal/events"
	"github.com/example/rapid-dispatch/internal/fare"
	"github.com/example/rapid-dispatch/internal/matcher"
	"github.com/example/rapid-dispatch/internal/models"
	"github.com/example/rapid-dispatch/internal/observability"
	"github.com/example/rapid-dispatch/internal/registry"
	"github.com/example/rapid-dispatch/internal/route"
	"github.com/example/rapid-dispatch/internal/storage"
)

type Server struct {
	Registry registry.Registry
	Matcher  *matcher.Service
	Booking  *booking.Service
	Quotes   *route.Cache
	WSReg    *dispatch.WSRegistry

	logger *slog.Logger
	mux    *mux.Router
}

// NewServer wires the dispatch core from config: in-memory registry and
// store by default, Redis registry when REDIS_ADDR is set, Postgres booking
// store when PG_DSN is set, Kafka booking events when brokers are set.
func NewServer(cfg config.ServerConfig, logger *slog.Logger) (*Server, error) {
	var reg registry.Registry
	if cfg.RedisAddr != "" {
		rr := registry.NewRedisRegistry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisGeoKey)
		if err := rr.Seed(registry.SeedDrivers()); err != nil {
			return nil, err
		}
		reg = rr
	} else {
		mr, err := registry.NewMemoryRegistry(registry.SeedDrivers())
		if err != nil {
			return nil, err
		}
		reg = mr
	}

	var store storage.BookingStore
	if cfg.PGDSN != "" {
		ps, err := storage.NewPostgresStore(cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		store = ps
	} else {
		store = storage.NewMemoryStore()
	}

	var ev booking.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		ev = events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	wsreg := dispatch.NewWSRegistry()
	var notifier dispatch.Notifier = wsreg
	if cfg.WebhookEndpoint != "" {
		notifier = dispatch.NewWebhookNotifier(cfg.WebhookEndpoint, wsreg)
	}

	s := &Server{
		Registry: reg,
		Matcher:  &matcher.Service{Registry: reg, RadiusKm: cfg.SearchRadiusKm, Limit: cfg.MaxCandidates},
		Booking:  &booking.Service{Registry: reg, Store: store, Events: ev, Notifier: notifier},
		Quotes:   route.NewCache(cfg.QuoteCacheTTL),
		WSReg:    wsreg,
		logger:   logger,
		mux:      mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/drivers/nearby", s.handleFindNearby).Methods("POST")
	s.mux.HandleFunc("/api/v1/quotes", s.handleQuote).Methods("POST")
	s.mux.HandleFunc("/api/v1/bookings", s.handleBook).Methods("POST")
	s.mux.HandleFunc("/api/v1/drivers/{driver_id}/complete", s.handleCompleteTrip).Methods("POST")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ws/{driver_id}", s.handleWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

type NearbyRequest struct {
	PickupLat float64 `json:"pickup_lat"`
	PickupLng float64 `json:"pickup_lng"`
}

type QuoteRequest struct {
	PickupLat   float64 `json:"pickup_lat"`
	PickupLng   float64 `json:"pickup_lng"`
	DestLat     float64 `json:"dest_lat"`
	DestLng     float64 `json:"dest_lng"`
	VehicleType string  `json:"vehicle_type"`
}

type BookRequest struct {
	DriverID int `json:"driver_id"`
}

type BookResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	BookingID string `json:"booking_id"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (s *Server) handleFindNearby(w http.ResponseWriter, r *http.Request) {
	var req NearbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Error: err.Error()})
		return
	}
	cands, err := s.Matcher.FindNearby(models.Coord{Lat: req.PickupLat, Lng: req.PickupLng})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cands == nil {
		cands = []models.Candidate{}
	}
	annotate(r.Context(), "candidates", len(cands))
	writeJSON(w, http.StatusOK, cands)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Error: err.Error()})
		return
	}
	class := models.VehicleClass(req.VehicleType)
	if class == "" {
		class = models.VehicleBike
	}
	pickup := models.Coord{Lat: req.PickupLat, Lng: req.PickupLng}
	dest := models.Coord{Lat: req.DestLat, Lng: req.DestLng}

	if q, ok := s.Quotes.Get(pickup, dest, class); ok {
		observability.QuoteCacheHits.Inc()
		annotate(r.Context(), "vehicle", string(class), "fare", q.Fare, "cache_hit", true)
		writeJSON(w, http.StatusOK, q)
		return
	}

	est, err := route.EstimateRoute(pickup, dest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	amount, err := fare.Estimate(est.DistanceKm, class)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pts := make([][2]float64, 0, len(est.Waypoints))
	for _, wp := range est.Waypoints {
		pts = append(pts, [2]float64{wp.Lat, wp.Lng})
	}
	q := models.RouteQuote{
		DistanceKm:      math.Round(est.DistanceKm*100) / 100,
		Fare:            amount,
		DurationMinutes: est.DurationMinutes,
		Route:           pts,
	}
	s.Quotes.Set(pickup, dest, class, q)
	annotate(r.Context(), "vehicle", string(class), "fare", q.Fare, "cache_hit", false)
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Error: err.Error()})
		return
	}
	annotate(r.Context(), "driver_id", req.DriverID)
	b, err := s.Booking.Book(req.DriverID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	annotate(r.Context(), "booking_id", b.ID)
	writeJSON(w, http.StatusOK, BookResponse{Status: "success", Message: b.Message, BookingID: b.ID})
}

func (s *Server) handleCompleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["driver_id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Error: "driver_id must be an integer"})
		return
	}
	annotate(r.Context(), "driver_id", id)
	if err := s.Booking.CompleteTrip(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["driver_id"])
	if err != nil {
		http.Error(w, "driver_id must be an integer", http.StatusBadRequest)
		return
	}
	if _, err := s.Registry.Get(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}
	s.WSReg.Add(id, conn)
	go s.readPump(id, conn)
}

// readPump drains the connection so close frames are observed; the session
// is dropped as soon as the driver disconnects, keeping Notify from writing
// into dead connections.
func (s *Server) readPump(id int, conn *websocket.Conn) {
	defer func() {
		s.WSReg.Remove(id)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeError maps core errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	annotate(r.Context(), "error", err.Error())
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidCoordinate), errors.Is(err, fare.ErrUnsupportedVehicle):
		status = http.StatusBadRequest
	case errors.Is(err, registry.ErrDriverNotFound):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrDriverUnavailable):
		status = http.StatusConflict
	default:
		s.logger.Error("internal error", "error", err)
	}
	writeJSON(w, status, errorResponse{Status: "error", Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
