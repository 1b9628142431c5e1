package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"runtracker/internal/auth"
	"runtracker/internal/history"
	"runtracker/internal/remote"
	"runtracker/internal/store"
)

func (s *Server) listRuns(c *fiber.Ctx) error {
	runs, err := history.NewStorePersister(s.db, userID(c)).List(c.UserContext())
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}
	return c.JSON(remote.ListResponse{Success: true, Runs: runs})
}

// saveRun stores a run under a server-assigned id and date
func (s *Server) saveRun(c *fiber.Ctx) error {
	var run store.RunSummary
	if err := c.BodyParser(&run); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid run payload")
	}

	run.ID = uuid.NewString()
	run.Date = s.now().UTC()

	saved, err := history.NewStorePersister(s.db, userID(c)).Save(c.UserContext(), run)
	if err != nil {
		return err
	}

	s.logger.Info("run stored", "user", userID(c), "id", saved.ID, "distance_km", saved.DistanceKm)
	return c.JSON(remote.SaveResponse{
		Success: true,
		RunID:   remote.RunID(saved.ID),
		Date:    saved.Date,
	})
}

func (s *Server) register(c *fiber.Ctx) error {
	var req remote.AuthRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrWeakPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}

	user := &store.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.db.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	s.logger.Info("account registered", "user", user.ID)
	return s.issueToken(c, user)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req remote.AuthRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	user, err := s.db.GetUserByEmail(req.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		return fiber.NewError(fiber.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
	}
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	return s.issueToken(c, user)
}

func (s *Server) issueToken(c *fiber.Ctx, user *store.User) error {
	token, err := auth.SignToken(s.secret, user.ID, s.tokenTTL, s.now())
	if err != nil {
		return err
	}
	return c.JSON(remote.AuthResponse{Success: true, Token: token, User: user})
}
