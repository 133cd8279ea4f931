package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"app/auth"
	"app/domain"
	"app/gates/cities"
	"app/gates/maps"
	"app/iternal/config"
	"app/iternal/pkg"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type Server struct {
	users   domain.UserStore
	log     *slog.Logger
	cfg     *config.Config
	guesses *domain.GuessService
	board   *domain.LeaderboardService
	auth    *auth.Service
	cities  *cities.Catalog
	maps    *maps.Client // nil when no api key is configured
}

func NewServer(users domain.UserStore, ranks domain.RankStore, catalog *cities.Catalog,
	mapsClient *maps.Client, cfg *config.Config, log *slog.Logger, r *gin.Engine) *Server {
	score := domain.ScoreModel{
		MaxScore:   cfg.Game.MaxScore,
		KmPerPoint: cfg.Game.KmPerPoint,
	}
	server := &Server{
		users:   users,
		log:     log,
		cfg:     cfg,
		guesses: domain.NewGuessService(ranks, catalog, score, log),
		board:   domain.NewLeaderboardService(ranks, cfg.Game.ReadTimeout, log),
		auth:    auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL, log, pkg.NormalClock{}),
		cities:  catalog,
		maps:    mapsClient,
	}

	r.POST("/register", server.registerHandler)
	r.POST("/login", server.loginHandler)
	// read-only pages, anonymous browsing allowed
	r.GET("/leaderboard", server.leaderboardHandler)
	r.GET("/play", server.OptionalAuthMiddleware(), server.playHandler)
	// scoring requires a verified session
	authorized := r.Group("/")
	authorized.Use(server.AuthMiddleware())
	{
		authorized.POST("/guess", server.guessHandler)
		authorized.GET("/me", server.meHandler)
	}
	server.log.Info("router configured")
	return server
}

func (s *Server) registerHandler(c *gin.Context) {
	const op = "gates.server.registerHandler"
	s.log.Info(op, "msg", "starting register")

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Debug(op, "reason", "failed to decode request body: "+err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Email == "" || req.Password == "" {
		s.log.Debug(op, "reason", "missing credentials")
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	if req.Password != req.ConfirmPassword {
		s.log.Debug(op, "reason", "password confirmation mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}
	if err := domain.VerifyEmail(domain.Email(req.Email)); err != nil {
		s.log.Debug(op, "reason", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error(op, "error", "password hashing failed: "+err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}

	id, err := s.users.AddUser(c.Request.Context(), domain.Email(req.Email), string(hash))
	if errors.Is(err, domain.ErrUserAlreadyExists) {
		s.log.Debug(op, "reason", "user already exists")
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
		return
	}
	if err != nil {
		s.log.Error(op, "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "something went wrong"})
		return
	}

	s.log.Info(op, "registered user", id)
	c.Status(http.StatusCreated)
}

func (s *Server) loginHandler(c *gin.Context) {
	const op = "gates.server.loginHandler"
	s.log.Info(op, "msg", "starting login")

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Debug(op, "reason", "failed to decode request body: "+err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Email == "" || req.Password == "" {
		s.log.Debug(op, "reason", "missing credentials")
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := s.users.GetUserByEmail(c.Request.Context(), domain.Email(req.Email))
	if errors.Is(err, domain.ErrUserNotFound) {
		s.log.Debug(op, "reason", "user does not exist")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err != nil {
		s.log.Error(op, "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "something went wrong"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(req.Password)); err != nil {
		s.log.Debug(op, "reason", "wrong password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		s.log.Error(op, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}

	c.SetCookie(auth.CookieName, token, int(s.cfg.Auth.TokenTTL.Seconds()), "/", "", false, true)
	s.log.Info(op, "logged in user", user.ID)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
}

func (s *Server) guessHandler(c *gin.Context) {
	const op = "gates.server.guessHandler"
	s.log.Info(op, "msg", "starting guess")

	claims, ok := claimsFromContext(c)
	if !ok {
		s.log.Error(op, "error", "claims not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Debug(op, "reason", "failed to decode request body: "+err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.guesses.SubmitGuess(c.Request.Context(), claims.ID, req.toDomain())
	if err != nil {
		s.writeGuessError(c, op, err)
		return
	}

	resp := guessResponse{
		Distance: fmt.Sprintf("%.3f", result.DistanceKm),
		Score:    result.Score,
	}
	if s.maps != nil {
		guessLoc := domain.Location{Lat: req.Lat, Lng: req.Lng}
		image, err := s.maps.StaticGuessMap(c.Request.Context(), guessLoc, result.City)
		if err != nil {
			// the guess is already scored, the picture is decoration
			s.log.Error(op, "error", "static map fetch failed: "+err.Error())
		} else {
			resp.StaticMap = image
		}
	}

	s.log.Info(op, "scored guess for user", claims.ID)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) writeGuessError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidGuess):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "city not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domain.ErrInternalInconsistency):
		s.log.Error(op, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, try again"})
	default:
		s.log.Error(op, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}

func (s *Server) leaderboardHandler(c *gin.Context) {
	const op = "gates.server.leaderboardHandler"
	s.log.Info(op, "msg", "starting leaderboard")

	entries, err := s.board.Top(c.Request.Context(), s.cfg.Game.LeaderboardSize)
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, try again"})
			return
		}
		s.log.Error(op, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}

	resp := make([]leaderboardRow, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, fromDomain(entry))
	}
	s.log.Info(op, "msg", "leaderboard retrieved")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) playHandler(c *gin.Context) {
	const op = "gates.server.playHandler"
	s.log.Info(op, "msg", "starting play")

	_, loggedIn := claimsFromContext(c)
	city := s.cities.Random()

	resp := playResponse{
		City:     city,
		LoggedIn: loggedIn,
	}
	if s.maps != nil {
		image, err := s.maps.StaticCityMap(c.Request.Context(), city.Location())
		if err != nil {
			s.log.Error(op, "error", "static map fetch failed: "+err.Error())
		} else {
			resp.Image = image
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) meHandler(c *gin.Context) {
	const op = "gates.server.meHandler"

	claims, ok := claimsFromContext(c)
	if !ok {
		s.log.Error(op, "error", "claims not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": claims.ID, "email": claims.Email, "exp": claims.Exp})
}
