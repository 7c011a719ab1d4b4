package api

import (
	"net/http"
	"strconv"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/service/users"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users users.UserUseCase
}

type createUserRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	RewardPoints int    `json:"reward_points"`
}

type userResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	RewardPoints int    `json:"reward_points"`
}

func NewUserHandler(users users.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("/user/:id", h.get)
	router.POST("/user", h.create)
	router.POST("/user/:id/points", h.awardPoints)
	router.DELETE("/user/:id", h.delete)
}

func (h *UserHandler) get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		RewardPoints: req.RewardPoints,
	}
	if err := h.users.Register(c.Request.Context(), user); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) awardPoints(c *gin.Context) {
	delta, err := strconv.Atoi(c.Query("delta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points delta"})
		return
	}

	balance, err := h.users.AwardPoints(c.Request.Context(), c.Param("id"), delta)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reward_points": balance})
}

func (h *UserHandler) delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           u.ID.String(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		RewardPoints: u.RewardPoints,
	}
}
