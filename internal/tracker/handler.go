package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/syclar/internal/auth"
	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/internal/telemetry/tracing"
	"github.com/2beens/syclar/internal/verification"
	"github.com/2beens/syclar/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=tracker_test

type activityService interface {
	Today() string
	Catalog() []ledger.Achievement
	State(ctx context.Context, userID string) (ledger.State, error)
	LogApproach(ctx context.Context, userID string, isRejection bool, onDate string) (ledger.State, error)
	AdjustPassedBy(ctx context.Context, userID string, delta int) (ledger.State, error)
	SetExemption(ctx context.Context, userID string, active bool) (ledger.State, error)
	AdvanceThreshold(ctx context.Context, userID string) (ledger.State, error)
	SetHomeLocation(ctx context.Context, userID string, home *ledger.GeoPoint) (ledger.State, error)
	SimulateHistory(ctx context.Context, userID string, days int) (ledger.State, error)
	ResetAll(ctx context.Context, userID string) (ledger.State, error)
	VerifyApproach(ctx context.Context, userID string, image []byte, mimeType string) (verification.Result, *ledger.State, error)
	RecentHeatmap(ctx context.Context, userID string, days int) (RangeHeatmap, error)
	HeatmapYears(ctx context.Context, userID string) ([]int, error)
	HeatmapYear(ctx context.Context, userID string, year int) (ledger.YearGrid, error)
}

type homeSuggester interface {
	SuggestHome(ctx context.Context, ip string) (ledger.GeoPoint, error)
}

type pepTalker interface {
	Get(ctx context.Context, date string) string
}

type Handler struct {
	service      activityService
	geo          homeSuggester
	pepTalks     pepTalker
	devEndpoints bool
}

func NewHandler(
	service activityService,
	geo homeSuggester,
	pepTalks pepTalker,
	devEndpoints bool,
) *Handler {
	return &Handler{
		service:      service,
		geo:          geo,
		pepTalks:     pepTalks,
		devEndpoints: devEndpoints,
	}
}

// StateView is the state as served to clients.
type StateView struct {
	ledger.State
	DayCompleted bool   `json:"dayCompleted"`
	Today        string `json:"today"`
}

type approachRequest struct {
	IsRejection bool   `json:"isRejection"`
	Date        string `json:"date"`
}

type passedByRequest struct {
	Delta int `json:"delta"`
}

type exemptionRequest struct {
	Active bool `json:"active"`
}

type simulateRequest struct {
	Days int `json:"days"`
}

type verifyResponse struct {
	verification.Result
	State *StateView `json:"state,omitempty"`
}

type pepTalkResponse struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/catalog", handler.handleCatalog).Methods("GET", "OPTIONS").Name("catalog")
	router.HandleFunc("/state", handler.handleState).Methods("GET", "OPTIONS").Name("state")
	router.HandleFunc("/approaches", handler.handleLogApproach).Methods("POST", "OPTIONS").Name("approaches")
	router.HandleFunc("/passedby", handler.handlePassedBy).Methods("POST", "OPTIONS").Name("passedby")
	router.HandleFunc("/exemption", handler.handleExemption).Methods("POST", "OPTIONS").Name("exemption")
	router.HandleFunc("/threshold/next", handler.handleAdvanceThreshold).Methods("POST", "OPTIONS").Name("threshold-next")
	router.HandleFunc("/home", handler.handleSetHome).Methods("PUT", "OPTIONS").Name("home")
	router.HandleFunc("/home/suggest", handler.handleSuggestHome).Methods("GET", "OPTIONS").Name("home-suggest")

	heatmapRouter := router.PathPrefix("/heatmap").Subrouter()
	heatmapRouter.HandleFunc("/week", handler.handleRecentHeatmap(7)).Methods("GET", "OPTIONS").Name("heatmap-week")
	heatmapRouter.HandleFunc("/month", handler.handleRecentHeatmap(30)).Methods("GET", "OPTIONS").Name("heatmap-month")
	heatmapRouter.HandleFunc("/years", handler.handleHeatmapYears).Methods("GET", "OPTIONS").Name("heatmap-years")
	heatmapRouter.HandleFunc("/year/{year}", handler.handleHeatmapYear).Methods("GET", "OPTIONS").Name("heatmap-year")

	router.HandleFunc("/verify", handler.handleVerify).Methods("POST", "OPTIONS").Name("verify")
	router.HandleFunc("/peptalk", handler.handlePepTalk).Methods("GET", "OPTIONS").Name("peptalk")

	if handler.devEndpoints {
		devRouter := router.PathPrefix("/dev").Subrouter()
		devRouter.HandleFunc("/simulate", handler.handleSimulate).Methods("POST", "OPTIONS").Name("dev-simulate")
		devRouter.HandleFunc("/reset", handler.handleReset).Methods("POST", "OPTIONS").Name("dev-reset")
	}
}

func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

func (handler *Handler) view(state ledger.State) StateView {
	today := handler.service.Today()
	return StateView{
		State:        state,
		DayCompleted: ledger.IsDayCompleted(state, today),
		Today:        today,
	}
}

func (handler *Handler) writeState(w http.ResponseWriter, state ledger.State) {
	pkg.WriteJSON(w, handler.view(state), http.StatusOK)
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrFutureDate),
		errors.Is(err, ErrInvalidDays),
		errors.Is(err, ErrInvalidLocation),
		errors.Is(err, ErrInvalidYear):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (handler *Handler) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, handler.service.Catalog(), http.StatusOK)
}

func (handler *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.state")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	state, err := handler.service.State(ctx, uid)
	if err != nil {
		handler.writeServiceError(w, "get state", err)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) handleLogApproach(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.approach")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req approachRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %s", err), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Bool("rejection", req.IsRejection))

	state, err := handler.service.LogApproach(ctx, uid, req.IsRejection, req.Date)
	if err != nil {
		handler.writeServiceError(w, "log approach", err)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) handlePassedBy(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.passedby")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req passedByRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %s", err), http.StatusBadRequest)
		return
	}

	state, err := handler.service.AdjustPassedBy(ctx, uid, req.Delta)
	if err != nil {
		handler.writeServiceError(w, "adjust passed by", err)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) handleExemption(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.exemption")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req exemptionRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %s", err), http.StatusBadRequest)
		return
	}

	state, err := handler.service.SetExemption(ctx, uid, req.Active)
	if err != nil {
		handler.writeServiceError(w, "set exemption", err)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) handleAdvanceThreshold(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.threshold")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	state, err := handler.service.AdvanceThreshold(ctx, uid)
	if err != nil {
		handler.writeServiceError(w, "advance threshold", err)
		return
	}
	handler.writeState(w, state)
}

// handleSetHome takes a {lat, lng} body; a JSON null clears the home location.
func (handler *Handler) handleSetHome(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.home")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var home *ledger.GeoPoint
	if err := decodeBody(r, &home); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %s", err), http.StatusBadRequest)
		return
	}

	state, err := handler.service.SetHomeLocation(ctx, uid, home)
	if err != nil {
		handler.writeServiceError(w, "set home location", err)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) handleSuggestHome(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.home.suggest")
	defer span.End()

	if _, ok := userID(w, r); !ok {
		return
	}
	if handler.geo == nil {
		http.Error(w, "location suggestions not available", http.StatusNotFound)
		return
	}

	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		http.Error(w, "invalid client address", http.StatusBadRequest)
		return
	}
	point, err := handler.geo.SuggestHome(ctx, ip)
	if err != nil {
		log.Warnf("suggest home for ip %s: %s", ip, err)
		http.Error(w, "no location found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, point, http.StatusOK)
}

func (handler *Handler) handleRecentHeatmap(days int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.heatmap.recent")
		defer span.End()
		span.SetAttributes(attribute.Int("days", days))

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		heatmap, err := handler.service.RecentHeatmap(ctx, uid, days)
		if err != nil {
			handler.writeServiceError(w, "recent heatmap", err)
			return
		}
		pkg.WriteJSON(w, heatmap, http.StatusOK)
	}
}

func (handler *Handler) handleHeatmapYears(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.heatmap.years")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	years, err := handler.service.HeatmapYears(ctx, uid)
	if err != nil {
		handler.writeServiceError(w, "heatmap years", err)
		return
	}
	pkg.WriteJSON(w, map[string][]int{"years": years}, http.StatusOK)
}

func (handler *Handler) handleHeatmapYear(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.heatmap.year")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	grid, err := handler.service.HeatmapYear(ctx, uid, year)
	if err != nil {
		handler.writeServiceError(w, "heatmap year", err)
		return
	}
	pkg.WriteJSON(w, grid, http.StatusOK)
}

func (handler *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.verify")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, verification.MaxImageSizeByte+1024*1024)
	if err := r.ParseMultipartForm(verification.MaxImageSizeByte); err != nil {
		http.Error(w, "image too large or malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, verification.MaxImageSizeByte+1))
	if err != nil {
		log.Errorf("read uploaded image: %s", err)
		http.Error(w, "read image failed", http.StatusInternalServerError)
		return
	}
	if len(image) == 0 {
		http.Error(w, "image file empty", http.StatusBadRequest)
		return
	}
	if len(image) > verification.MaxImageSizeByte {
		http.Error(w, "image too large", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}
	span.SetAttributes(attribute.String("image.mime", mimeType), attribute.Int("image.size", len(image)))

	result, state, err := handler.service.VerifyApproach(ctx, uid, image, mimeType)
	if err != nil {
		handler.writeServiceError(w, "verify approach", err)
		return
	}

	resp := verifyResponse{Result: result}
	if state != nil {
		v := handler.view(*state)
		resp.State = &v
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) handlePepTalk(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.peptalk")
	defer span.End()

	if _, ok := userID(w, r); !ok {
		return
	}

	today := handler.service.Today()
	text := verification.FallbackPepTalk
	if handler.pepTalks != nil {
		text = handler.pepTalks.Get(ctx, today)
	}
	pkg.WriteJSON(w, pepTalkResponse{Date: today, Text: text}, http.StatusOK)
}

func (handler *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.dev.simulate")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req simulateRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %s", err), http.StatusBadRequest)
		return
	}

	state, err := handler.service.SimulateHistory(ctx, uid, req.Days)
	if err != nil {
		handler.writeServiceError(w, "simulate history", err)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.dev.reset")
	defer span.End()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	state, err := handler.service.ResetAll(ctx, uid)
	if err != nil {
		handler.writeServiceError(w, "reset all", err)
		return
	}
	handler.writeState(w, state)
}
