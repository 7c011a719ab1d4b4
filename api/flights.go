package api

import (
	"net/http"
	"time"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type createFlightRequest struct {
	SourceAirportID  string `json:"source_airport_id"`
	DestAirportID    string `json:"dest_airport_id"`
	FlightModelID    int    `json:"flight_model_id"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	RewardPointsCost int    `json:"reward_points_cost"`
}

type updateFlightRequest struct {
	DepartureTime *string `json:"departure_time"`
	ArrivalTime   *string `json:"arrival_time"`
	FlightModelID *int    `json:"flight_model_id"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.search)
	router.POST("/flight", h.create)
	router.PUT("/flight/:id", h.update)
	router.DELETE("/flight/:id", h.delete)
}

func (h *FlightHandler) search(c *gin.Context) {
	list, err := h.service.Search(c.Request.Context(), c.Query("sourceAbv"), c.Query("destAbv"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if len(list) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sourceID, err := uuid.Parse(req.SourceAirportID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source airport id"})
		return
	}
	destID, err := uuid.Parse(req.DestAirportID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination airport id"})
		return
	}
	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure time"})
		return
	}
	arrival, err := time.Parse(time.RFC3339, req.ArrivalTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival time"})
		return
	}

	flight := &domain.Flight{
		SourceAirportID:  sourceID,
		DestAirportID:    destID,
		FlightModelID:    req.FlightModelID,
		DepartureTime:    departure,
		ArrivalTime:      arrival,
		RewardPointsCost: req.RewardPointsCost,
	}
	if err := h.service.Create(c.Request.Context(), flight); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight_id": flight.ID})
}

func (h *FlightHandler) update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	var req updateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var departure, arrival *time.Time
	if req.DepartureTime != nil {
		t, err := time.Parse(time.RFC3339, *req.DepartureTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure time"})
			return
		}
		departure = &t
	}
	if req.ArrivalTime != nil {
		t, err := time.Parse(time.RFC3339, *req.ArrivalTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival time"})
			return
		}
		arrival = &t
	}

	flight, err := h.service.Update(c.Request.Context(), id, departure, arrival, req.FlightModelID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "flight deleted"})
}
