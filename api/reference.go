package api

import (
	"net/http"
	"strconv"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/service/reference"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReferenceHandler struct {
	reference reference.ReferenceUseCase
}

type createAirportRequest struct {
	Name      string `json:"name"`
	AbvName   string `json:"abv_name"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type createModelRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	SeatCapacity int    `json:"seat_capacity"`
	SeatsPerRow  int    `json:"seats_per_row"`
}

func NewReferenceHandler(reference reference.ReferenceUseCase) *ReferenceHandler {
	return &ReferenceHandler{reference: reference}
}

func (h *ReferenceHandler) Register(router *gin.RouterGroup) {
	router.GET("/models", h.listModels)
	router.POST("/model", h.createModel)
	router.DELETE("/model/:id", h.deleteModel)
	router.GET("/airport/:abv", h.airportByAbv)
	router.POST("/airport", h.createAirport)
	router.DELETE("/airport/:id", h.deleteAirport)
}

func (h *ReferenceHandler) listModels(c *gin.Context) {
	models, err := h.reference.ListModels(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models)
}

func (h *ReferenceHandler) createModel(c *gin.Context) {
	var req createModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := &domain.FlightModel{
		Name:         req.Name,
		Code:         req.Code,
		SeatCapacity: req.SeatCapacity,
		SeatsPerRow:  req.SeatsPerRow,
	}
	if err := h.reference.SaveModel(c.Request.Context(), model); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model_id": model.ID})
}

func (h *ReferenceHandler) deleteModel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}
	if err := h.reference.DeleteModel(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "flight model deleted"})
}

func (h *ReferenceHandler) airportByAbv(c *gin.Context) {
	airport, err := h.reference.AirportByAbv(c.Request.Context(), c.Param("abv"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, airport)
}

func (h *ReferenceHandler) createAirport(c *gin.Context) {
	var req createAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	airport := &domain.Airport{
		Name:      req.Name,
		AbvName:   req.AbvName,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.reference.SaveAirport(c.Request.Context(), airport); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"airport_id": airport.ID})
}

func (h *ReferenceHandler) deleteAirport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid airport id"})
		return
	}
	if err := h.reference.DeleteAirport(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "airport deleted"})
}
