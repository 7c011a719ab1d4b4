package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, sourceAbv, destAbv string) ([]domain.Flight, error) {
	args := m.Called(ctx, sourceAbv, destAbv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightUseCase) Update(ctx context.Context, id uuid.UUID, departure, arrival *time.Time, modelID *int) (*domain.Flight, error) {
	args := m.Called(ctx, id, departure, arrival, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightUseCase) ValidateAirport(ctx context.Context, id uuid.UUID) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func (m *MockFlightUseCase) ValidateFlightModel(ctx context.Context, id int) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func sampleFlight() domain.Flight {
	return domain.Flight{
		ID:               uuid.New(),
		SourceAirportID:  uuid.New(),
		DestAirportID:    uuid.New(),
		FlightModelID:    1,
		DepartureTime:    time.Date(2030, 1, 15, 10, 0, 0, 0, time.UTC),
		ArrivalTime:      time.Date(2030, 1, 15, 14, 0, 0, 0, time.UTC),
		RewardPointsCost: 100,
	}
}

func TestFlightHandler_search(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("matches found", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/api/flights?sourceAbv=LAX&destAbv=JFK", nil)

		mockService.On("Search", c.Request.Context(), "LAX", "JFK").
			Return([]domain.Flight{sampleFlight()}, nil)

		handler.search(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var list []domain.Flight
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	t.Run("no matches", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/api/flights?sourceAbv=LAX&destAbv=JFK", nil)

		mockService.On("Search", c.Request.Context(), "LAX", "JFK").Return([]domain.Flight{}, nil)

		handler.search(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("storage fault", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/api/flights", nil)

		mockService.On("Search", c.Request.Context(), "", "").Return(nil, domain.ErrUnavailable)

		handler.search(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestFlightHandler_create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("created", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		req := createFlightRequest{
			SourceAirportID:  uuid.NewString(),
			DestAirportID:    uuid.NewString(),
			FlightModelID:    1,
			DepartureTime:    "2030-01-15T10:00:00Z",
			ArrivalTime:      "2030-01-15T14:00:00Z",
			RewardPointsCost: 100,
		}
		body, _ := json.Marshal(req)
		c.Request = httptest.NewRequest("POST", "/api/flight", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		mockService.On("Create", c.Request.Context(), mock.AnythingOfType("*domain.Flight")).Return(nil)

		handler.create(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "flight_id")
		mockService.AssertExpectations(t)
	})

	t.Run("bad departure time", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		req := createFlightRequest{
			SourceAirportID: uuid.NewString(),
			DestAirportID:   uuid.NewString(),
			DepartureTime:   "tomorrow",
			ArrivalTime:     "2030-01-15T14:00:00Z",
		}
		body, _ := json.Marshal(req)
		c.Request = httptest.NewRequest("POST", "/api/flight", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid departure time")
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown airport", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		req := createFlightRequest{
			SourceAirportID: uuid.NewString(),
			DestAirportID:   uuid.NewString(),
			DepartureTime:   "2030-01-15T10:00:00Z",
			ArrivalTime:     "2030-01-15T14:00:00Z",
		}
		body, _ := json.Marshal(req)
		c.Request = httptest.NewRequest("POST", "/api/flight", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		mockService.On("Create", c.Request.Context(), mock.AnythingOfType("*domain.Flight")).
			Return(domain.Reject(domain.ReasonInvalidFlight, "unknown source or destination airport"))

		handler.create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown source or destination airport")
	})
}

func TestFlightHandler_update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("partial update", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		flight := sampleFlight()
		departure := "2030-02-01T08:00:00Z"
		body, _ := json.Marshal(updateFlightRequest{DepartureTime: &departure})
		c.Params = gin.Params{{Key: "id", Value: flight.ID.String()}}
		c.Request = httptest.NewRequest("PUT", "/api/flight/"+flight.ID.String(), bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		parsed, _ := time.Parse(time.RFC3339, departure)
		mockService.On("Update", c.Request.Context(), flight.ID, &parsed, (*time.Time)(nil), (*int)(nil)).
			Return(&flight, nil)

		handler.update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown flight", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		id := uuid.New()
		body, _ := json.Marshal(updateFlightRequest{})
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		c.Request = httptest.NewRequest("PUT", "/api/flight/"+id.String(), bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		mockService.On("Update", c.Request.Context(), id, (*time.Time)(nil), (*time.Time)(nil), (*int)(nil)).
			Return(nil, domain.ErrNotFound)

		handler.update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		handler := NewFlightHandler(&MockFlightUseCase{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		c.Request = httptest.NewRequest("PUT", "/api/flight/not-a-uuid", bytes.NewReader([]byte("{}")))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid flight id")
	})
}

func TestFlightHandler_delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request = httptest.NewRequest("DELETE", "/api/flight/"+id.String(), nil)

	mockService.On("Delete", c.Request.Context(), id).Return(nil)

	handler.delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
