package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/service"
)

type Handler struct {
	events   *service.EventService
	profiles *service.ProfileService
	checkins *service.CheckInService
	devices  *service.DeviceService
}

func NewHandler(events *service.EventService, profiles *service.ProfileService, checkins *service.CheckInService, devices *service.DeviceService) *Handler {
	return &Handler{
		events:   events,
		profiles: profiles,
		checkins: checkins,
		devices:  devices,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "checkin service is running at port " + os.Getenv("CHECKIN_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	json.NewEncoder(w).Encode(rsp)
}

// CreateCheckIn is the QR-web arrival path: resolve the caller's fingerprint
// and record the check-in in one round trip. No retry on failure; the client
// shows a retry affordance instead, to avoid duplicate arrivals when a
// failure was actually a partial success.
func (h *Handler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID     string `json:"event_id"`
		Fingerprint string `json:"fingerprint"`
		DeviceType  string `json:"device_type"`
		Source      string `json:"source"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}
	if req.EventID == "" || req.Fingerprint == "" {
		h.CreateResponse(w, Response{Message: "event_id and fingerprint are required", Code: http.StatusBadRequest})
		return
	}

	checkinID, err := h.checkins.ResolveAndRecord(r.Context(), req.EventID, req.Fingerprint, req.DeviceType, req.Source)
	if err != nil {
		log.Errorf("Error [CheckInService.ResolveAndRecord] %s", err)
		h.CreateResponse(w, Response{Message: "check-in failed", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{
		Message: "checked in",
		Code:    http.StatusCreated,
		Data:    map[string]string{"checkin_id": checkinID},
	})
}

// BindProfile assigns a profile to a check-in; with remember=true the device
// also keeps the profile for future automatic resolution.
func (h *Handler) BindProfile(w http.ResponseWriter, r *http.Request) {
	checkinID := chi.URLParam(r, "id")

	var req struct {
		ProfileID string `json:"profile_id"`
		DeviceID  string `json:"device_id"`
		Remember  bool   `json:"remember"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}
	if req.ProfileID == "" {
		h.CreateResponse(w, Response{Message: "profile_id is required", Code: http.StatusBadRequest})
		return
	}

	if req.Remember && req.DeviceID != "" {
		stickySaved, err := h.profiles.BindAndRemember(r.Context(), checkinID, req.DeviceID, req.ProfileID)
		if err != nil {
			log.Errorf("Error [ProfileService.BindAndRemember] %s", err)
			h.CreateResponse(w, Response{Message: "bind failed", Code: http.StatusBadGateway, Error: err.Error()})
			return
		}

		h.CreateResponse(w, Response{
			Message: "profile assigned",
			Code:    http.StatusOK,
			Data:    map[string]bool{"sticky_saved": stickySaved},
		})
		return
	}

	if err := h.profiles.Bind(r.Context(), checkinID, req.ProfileID); err != nil {
		log.Errorf("Error [ProfileService.Bind] %s", err)
		h.CreateResponse(w, Response{Message: "bind failed", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "profile assigned", Code: http.StatusOK})
}

// CreateProfileAndBind creates a new profile from a name and binds it to the
// check-in and device in one staff action.
func (h *Handler) CreateProfileAndBind(w http.ResponseWriter, r *http.Request) {
	checkinID := chi.URLParam(r, "id")

	var req struct {
		Name     string `json:"name"`
		DeviceID string `json:"device_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}

	profile, stickySaved, err := h.profiles.CreateProfileAndBind(r.Context(), req.Name, checkinID, req.DeviceID)
	if err != nil {
		log.Errorf("Error [ProfileService.CreateProfileAndBind] %s", err)
		h.CreateResponse(w, Response{Message: "create and bind failed", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{
		Message: "profile created and assigned",
		Code:    http.StatusCreated,
		Data: map[string]interface{}{
			"profile":      profile,
			"sticky_saved": stickySaved,
		},
	})
}

// LabelDevice sets the human label shown for a device in the feed.
func (h *Handler) LabelDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}

	if err := h.devices.Label(r.Context(), chi.URLParam(r, "id"), req.Label); err != nil {
		log.Errorf("Error [DeviceService.Label] %s", err)
		h.CreateResponse(w, Response{Message: "failed to label device", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "device labeled", Code: http.StatusOK})
}

// GetEventCheckIns serves the joined feed view for one event.
func (h *Handler) GetEventCheckIns(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	checkins, err := h.checkins.Feed(r.Context(), eventID)
	if err != nil {
		log.Errorf("Error [CheckInService.Feed] %s", err)
		h.CreateResponse(w, Response{Message: "failed to load check-ins", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "check-ins", Code: http.StatusOK, Data: checkins})
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		log.Errorf("Error [EventService.List] %s", err)
		h.CreateResponse(w, Response{Message: "failed to load events", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "events", Code: http.StatusOK, Data: events})
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Errorf("Error [EventService.Get] %s", err)
		h.CreateResponse(w, Response{Message: "failed to load event", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}
	if event == nil {
		h.CreateResponse(w, Response{Message: "event not found", Code: http.StatusNotFound})
		return
	}

	h.CreateResponse(w, Response{Message: "event", Code: http.StatusOK, Data: event})
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}

	event, err := h.events.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		log.Errorf("Error [EventService.Create] %s", err)
		h.CreateResponse(w, Response{Message: "failed to create event", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "event created", Code: http.StatusCreated, Data: event})
}

func (h *Handler) SetEventActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"is_active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}

	if err := h.events.SetActive(r.Context(), chi.URLParam(r, "id"), req.IsActive); err != nil {
		log.Errorf("Error [EventService.SetActive] %s", err)
		h.CreateResponse(w, Response{Message: "failed to update event", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "event updated", Code: http.StatusOK})
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		log.Errorf("Error [ProfileService.List] %s", err)
		h.CreateResponse(w, Response{Message: "failed to load profiles", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "profiles", Code: http.StatusOK, Data: profiles})
}

func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
		Notes *string `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Message: "invalid request body", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}

	profile, err := h.profiles.Create(r.Context(), req.Name, req.Email, req.Phone, req.Notes)
	if err != nil {
		log.Errorf("Error [ProfileService.Create] %s", err)
		h.CreateResponse(w, Response{Message: "failed to create profile", Code: http.StatusBadRequest, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "profile created", Code: http.StatusCreated, Data: profile})
}

func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.Errorf("Error [ProfileService.Delete] %s", err)
		h.CreateResponse(w, Response{Message: "failed to delete profile", Code: http.StatusBadGateway, Error: err.Error()})
		return
	}

	h.CreateResponse(w, Response{Message: "profile deleted", Code: http.StatusOK})
}
