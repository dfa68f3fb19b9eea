package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/api_gateway/service"
	"github.com/portfolio-ledger/internal/domain/user"
)

// UserHandler serves the profile and budget of the single user
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

func NewUserHandler(logger *slog.Logger, userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context())
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapProfileToResponse(profile))
}

// UpdateProfile changes name, email or image URL. Any budget fields in the body are ignored.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, "Invalid request body: "+err.Error(), bindingDetails(err)...)
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), user.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	h.logger.Info("Updated user profile", "user_id", profile.User.ID)
	RespondOK(c, mapProfileToResponse(profile))
}

func (h *UserHandler) GetBudget(c *gin.Context) {
	RespondOK(c, mapBudgetToResponse(h.userService.GetBudget(c.Request.Context())))
}

func mapProfileToResponse(p service.Profile) UserResponse {
	return UserResponse{
		ID:       p.User.ID,
		Name:     p.User.Name,
		Email:    p.User.Email,
		ImageURL: p.User.ImageURL,
		Budget:   mapBudgetToResponse(p.Budget),
	}
}
