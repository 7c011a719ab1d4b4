package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReferenceUseCase struct {
	mock.Mock
}

func (m *MockReferenceUseCase) AirportByAbv(ctx context.Context, abv string) (*domain.Airport, error) {
	args := m.Called(ctx, abv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockReferenceUseCase) SaveAirport(ctx context.Context, airport *domain.Airport) error {
	args := m.Called(ctx, airport)
	return args.Error(0)
}

func (m *MockReferenceUseCase) DeleteAirport(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReferenceUseCase) ListModels(ctx context.Context) ([]domain.FlightModel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightModel), args.Error(1)
}

func (m *MockReferenceUseCase) SaveModel(ctx context.Context, model *domain.FlightModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockReferenceUseCase) DeleteModel(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestReferenceHandler_listModels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := &MockReferenceUseCase{}
	handler := NewReferenceHandler(mockService)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/models", nil)

	models := []domain.FlightModel{{ID: 1, Name: "B737", Code: "737-800", SeatCapacity: 120, SeatsPerRow: 6}}
	mockService.On("ListModels", c.Request.Context()).Return(models, nil)

	handler.listModels(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []domain.FlightModel
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models, got)
}

func TestReferenceHandler_createModel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("created", func(t *testing.T) {
		mockService := &MockReferenceUseCase{}
		handler := NewReferenceHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body, _ := json.Marshal(createModelRequest{Name: "B737", Code: "737-800", SeatCapacity: 120, SeatsPerRow: 6})
		c.Request = httptest.NewRequest("POST", "/api/model", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		mockService.On("SaveModel", c.Request.Context(), mock.AnythingOfType("*domain.FlightModel")).Return(nil)

		handler.createModel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "model_id")
		mockService.AssertExpectations(t)
	})

	t.Run("invalid capacity rejected", func(t *testing.T) {
		mockService := &MockReferenceUseCase{}
		handler := NewReferenceHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body, _ := json.Marshal(createModelRequest{Name: "B737", SeatCapacity: 0, SeatsPerRow: 6})
		c.Request = httptest.NewRequest("POST", "/api/model", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		mockService.On("SaveModel", c.Request.Context(), mock.AnythingOfType("*domain.FlightModel")).
			Return(domain.Reject(domain.ReasonInvalidFlight, "flight model needs a positive seat capacity"))

		handler.createModel(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "positive seat capacity")
	})
}

func TestReferenceHandler_deleteModel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("deleted", func(t *testing.T) {
		mockService := &MockReferenceUseCase{}
		handler := NewReferenceHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: "7"}}
		c.Request = httptest.NewRequest("DELETE", "/api/model/7", nil)

		mockService.On("DeleteModel", c.Request.Context(), 7).Return(nil)

		handler.deleteModel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		handler := NewReferenceHandler(&MockReferenceUseCase{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: "seven"}}
		c.Request = httptest.NewRequest("DELETE", "/api/model/seven", nil)

		handler.deleteModel(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReferenceHandler_airportByAbv(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("found", func(t *testing.T) {
		mockService := &MockReferenceUseCase{}
		handler := NewReferenceHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "abv", Value: "LAX"}}
		c.Request = httptest.NewRequest("GET", "/api/airport/LAX", nil)

		airport := &domain.Airport{ID: uuid.New(), Name: "Los Angeles Intl", AbvName: "LAX"}
		mockService.On("AirportByAbv", c.Request.Context(), "LAX").Return(airport, nil)

		handler.airportByAbv(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "LAX")
	})

	t.Run("unknown", func(t *testing.T) {
		mockService := &MockReferenceUseCase{}
		handler := NewReferenceHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "abv", Value: "ZZZ"}}
		c.Request = httptest.NewRequest("GET", "/api/airport/ZZZ", nil)

		mockService.On("AirportByAbv", c.Request.Context(), "ZZZ").Return(nil, domain.ErrNotFound)

		handler.airportByAbv(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReferenceHandler_createAirport(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := &MockReferenceUseCase{}
	handler := NewReferenceHandler(mockService)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createAirportRequest{Name: "John F Kennedy Intl", AbvName: "JFK"})
	c.Request = httptest.NewRequest("POST", "/api/airport", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("SaveAirport", c.Request.Context(), mock.AnythingOfType("*domain.Airport")).Return(nil)

	handler.createAirport(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "airport_id")
	mockService.AssertExpectations(t)
}

func TestReferenceHandler_deleteAirport(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("deleted", func(t *testing.T) {
		mockService := &MockReferenceUseCase{}
		handler := NewReferenceHandler(mockService)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		id := uuid.New()
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		c.Request = httptest.NewRequest("DELETE", "/api/airport/"+id.String(), nil)

		mockService.On("DeleteAirport", c.Request.Context(), id).Return(nil)

		handler.deleteAirport(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("malformed id", func(t *testing.T) {
		handler := NewReferenceHandler(&MockReferenceUseCase{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		c.Request = httptest.NewRequest("DELETE", "/api/airport/not-a-uuid", nil)

		handler.deleteAirport(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
