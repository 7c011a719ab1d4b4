package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/service/booking"
	"github.com/flightman/flightman-api/internal/service/checkin"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookings booking.BookingUseCase
	checkin  checkin.CheckInUseCase
}

type bookingResponse struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	FlightID           string  `json:"flight_id"`
	SeatNumber         string  `json:"seat_number"`
	FlightDate         string  `json:"flight_date"`
	Status             string  `json:"status"`
	PaymentStatus      bool    `json:"payment_status"`
	PointsPaid         int     `json:"points_paid"`
	PassengerCheckedIn bool    `json:"passenger_checked_in"`
	LuggageCheckedIn   bool    `json:"luggage_checked_in"`
	LuggageCount       int     `json:"luggage_count"`
	LuggageWeightKg    float64 `json:"luggage_weight_kg"`
}

func NewBookingHandler(bookings booking.BookingUseCase, checkin checkin.CheckInUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings, checkin: checkin}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.list)
	router.POST("/bookings", h.create)
	router.DELETE("/bookings", h.cancel)
	router.POST("/bookings/id/:id/usercheckin", h.userCheckIn)
	router.POST("/bookings/id/:id/luggagecheckin", h.luggageCheckIn)
}

func (h *BookingHandler) list(c *gin.Context) {
	userID := c.Query("userId")
	bookings, err := h.bookings.List(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid User ID"})
			return
		}
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toBookingResponse(&b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	bookingID := c.Query("bookingId")
	userID := c.Query("userId")

	ok, err := h.bookings.Cancel(c.Request.Context(), bookingID, userID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "Could not cancel booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully cancelled booking"})
}

func (h *BookingHandler) userCheckIn(c *gin.Context) {
	status, err := h.checkin.CheckInPassenger(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": status})
}

func (h *BookingHandler) luggageCheckIn(c *gin.Context) {
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid luggage count"})
		return
	}
	weight, err := strconv.ParseFloat(c.Query("totalWeight"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid luggage weight"})
		return
	}

	accepted, err := h.checkin.CheckInLuggage(c.Request.Context(), c.Param("id"), count, weight)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if !accepted {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to check in luggage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Luggage checked in successfully"})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID.String(),
		UserID:             b.UserID.String(),
		FlightID:           b.FlightID.String(),
		SeatNumber:         b.SeatNumber,
		FlightDate:         b.FlightDate.Format(domain.FlightDateLayout),
		Status:             string(b.Status),
		PaymentStatus:      b.PaymentStatus,
		PointsPaid:         b.PointsPaid,
		PassengerCheckedIn: b.PassengerCheckedIn,
		LuggageCheckedIn:   b.LuggageCheckedIn,
		LuggageCount:       b.LuggageCount,
		LuggageWeightKg:    b.LuggageWeightKg,
	}
}

// statusFor maps the error taxonomy onto HTTP codes: rejections and bad
// identifiers are client errors, storage faults are 503.
func statusFor(err error) int {
	var rej *domain.RejectionError
	switch {
	case errors.As(err, &rej):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMalformedID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
