package mockapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/mware"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/jwt"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

type codeRequest struct {
	Code string `json:"code" validate:"required"`
}

type claimRequest struct {
	Code   string `json:"code" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type tokenRequest struct {
	UserID    string `json:"userId" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
}

// Server обслуживает эндпоинты удалённого сервиса поверх Registry.
type Server struct {
	registry *Registry
	maker    jwt.Maker
	log      *slog.Logger
	validate *validator.Validate
}

// NewServer создает Server.
func NewServer(registry *Registry, maker jwt.Maker, log *slog.Logger) *Server {
	return &Server{
		registry: registry,
		maker:    maker,
		log:      log,
		validate: validator.New(),
	}
}

// Routes регистрирует маршруты.
func (s *Server) Routes(r chi.Router) {
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
	)

	r.Route("/api", func(r chi.Router) {
		r.Post("/activation/validate", s.handleValidate)
		r.Post("/activation/claim", s.handleClaim)
		r.Post("/dev/token", s.handleToken)

		r.Group(func(r chi.Router) {
			r.Use(mware.JWTMiddleware(s.maker, s.log))
			r.Get("/assessment/{sessionId}/results", s.handleResults)
			r.Get("/user/status", s.handleStatus)
		})
	})
}

// Handler возвращает готовый роутер.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	s.Routes(router)
	return router
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "mockapi.handleValidate"
	log := s.requestLog(r, op)

	var req codeRequest
	if !s.decode(w, r, log, &req) {
		return
	}

	outcome, err := s.registry.Validate(req.Code)
	switch {
	case errors.Is(err, ErrUnknownCode):
		log.Info("unknown activation code")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, ErrAlreadyClaimed):
		render.JSON(w, r, models.InvalidValidation(err.Error()))
		return
	case err != nil:
		log.Error("failed to validate code", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, outcome)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	const op = "mockapi.handleClaim"
	log := s.requestLog(r, op)

	var req claimRequest
	if !s.decode(w, r, log, &req) {
		return
	}

	outcome, err := s.registry.Claim(req.Code, req.UserID)
	switch {
	case errors.Is(err, ErrUnknownCode):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, ErrAlreadyClaimed):
		log.Info("repeated claim", slog.String("user_id", req.UserID))
		render.JSON(w, r, models.FailedClaim(err.Error()))
		return
	case err != nil:
		log.Error("failed to claim code", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	log.Info("code claimed", slog.String("user_id", req.UserID))
	render.JSON(w, r, outcome)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	const op = "mockapi.handleToken"
	log := s.requestLog(r, op)

	var req tokenRequest
	if !s.decode(w, r, log, &req) {
		return
	}

	token, err := s.maker.GenerateToken(req.UserID, req.SessionID)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to generate token"))
		return
	}
	render.JSON(w, r, map[string]string{"token": token})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	const op = "mockapi.handleResults"
	log := s.requestLog(r, op)

	sessionID := chi.URLParam(r, "sessionId")
	claims, ok := mware.ClaimsFromContext(r.Context())
	if !ok || claims.SessionID != sessionID {
		log.Warn("token does not belong to session", slog.String("session_id", sessionID))
		render.Status(r, http.StatusForbidden)
		render.PlainText(w, r, "token does not grant access to this session")
		return
	}

	result, err := s.registry.Result(sessionID)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.PlainText(w, r, err.Error())
		return
	}
	render.JSON(w, r, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	const op = "mockapi.handleStatus"
	log := s.requestLog(r, op)

	claims, _ := mware.ClaimsFromContext(r.Context())
	userID := r.URL.Query().Get("userId")
	if userID == "" && claims != nil {
		userID = claims.UserID()
	}

	status, err := s.registry.Status(userID)
	if errors.Is(err, ErrUnknownUser) {
		log.Info("no status record", slog.String("user_id", userID))
		render.Status(r, http.StatusNotFound)
		render.PlainText(w, r, err.Error())
		return
	}
	if err != nil {
		log.Error("failed to build status", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "internal error")
		return
	}
	render.JSON(w, r, status)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var validateErr validator.ValidationErrors
		if errors.As(err, &validateErr) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return false
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request"))
		return false
	}
	return true
}

func (s *Server) requestLog(r *http.Request, op string) *slog.Logger {
	return s.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
