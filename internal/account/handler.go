package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/syclar/internal/auth"
	"github.com/2beens/syclar/internal/middleware"
	"github.com/2beens/syclar/internal/telemetry/metrics"
	"github.com/2beens/syclar/internal/telemetry/tracing"
	"github.com/2beens/syclar/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=account_test

type accountService interface {
	Signup(ctx context.Context, email, password string) (*Profile, error)
	Authenticate(ctx context.Context, email, password string) (*Profile, error)
	Subscription(ctx context.Context, userID string) (*Profile, SubscriptionInfo, error)
}

type sessionService interface {
	Login(ctx context.Context, userID string) (*auth.Session, error)
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	accounts       accountService
	sessions       sessionService
	metricsManager *metrics.Manager
}

func NewHandler(
	accounts accountService,
	sessions sessionService,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		accounts:       accounts,
		sessions:       sessions,
		metricsManager: metricsManager,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type accountResponse struct {
	Profile      *Profile         `json:"profile"`
	Subscription SubscriptionInfo `json:"subscription"`
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	mainRouter.HandleFunc("/account", handler.HandleAccount).Methods("GET", "OPTIONS").Name("account")

	authSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	authSubrouter.HandleFunc("/signup", handler.HandleSignup).Methods("POST", "OPTIONS").Name("signup")
	authSubrouter.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authSubrouter.HandleFunc("/logout", handler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")

	// rate limit the auth endpoints to prevent abuse
	authSubrouter.Use(middleware.RateLimit(rateLimiter, "auth", allowedPerMin, handler.metricsManager))
}

func readCredentials(r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Email = r.Form.Get("email")
		req.Password = r.Form.Get("password")
	}
	if req.Email == "" || req.Password == "" {
		return req, errors.New("email and password required")
	}
	return req, nil
}

func (handler *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.signup")
	defer span.End()

	creds, err := readCredentials(r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := handler.accounts.Signup(ctx, creds.Email, creds.Password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		switch {
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, "email already registered", http.StatusBadRequest)
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrPasswordTooWeak):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("signup: %s", err)
			http.Error(w, "signup failed", http.StatusInternalServerError)
		}
		return
	}
	span.SetAttributes(attribute.String("user.id", profile.ID))
	handler.metricsManager.CounterSignups.Inc()

	handler.startSession(ctx, w, profile.ID, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.login")
	defer span.End()

	creds, err := readCredentials(r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := handler.accounts.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		switch {
		case errors.Is(err, ErrWrongPassword), errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrInvalidEmail):
			log.Tracef("failed login attempt for: %s", creds.Email)
			http.Error(w, "wrong credentials", http.StatusUnauthorized)
		default:
			log.Errorf("login: %s", err)
			http.Error(w, "login failed", http.StatusInternalServerError)
		}
		return
	}
	span.SetAttributes(attribute.String("user.id", profile.ID))

	handler.startSession(ctx, w, profile.ID, http.StatusOK)
}

func (handler *Handler) startSession(ctx context.Context, w http.ResponseWriter, userID string, status int) {
	session, err := handler.sessions.Login(ctx, userID)
	if err != nil {
		log.Errorf("create session for %s: %s", userID, err)
		http.Error(w, "create session failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, sessionResponse{
		Token:  session.Token,
		UserID: session.UserID,
	}, status)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.logout")
	defer span.End()

	token := r.Header.Get(auth.TokenHeader)
	if token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.sessions.Logout(ctx, token); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, auth.ErrSessionNotFound) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	profile, info, err := handler.accounts.Subscription(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("get account %s: %s", userID, err)
		http.Error(w, "get account failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, accountResponse{
		Profile:      profile,
		Subscription: info,
	}, http.StatusOK)
}
