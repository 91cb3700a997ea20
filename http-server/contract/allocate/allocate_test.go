package allocate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"oil-backend/internal/service/pipeline"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockContractAllocator struct {
	mock.Mock
}

func (m *MockContractAllocator) AllocateContracts(ctx context.Context, coeff float64, now time.Time) error {
	args := m.Called(ctx, coeff, now)
	return args.Error(0)
}

func TestAllocateContracts_Success(t *testing.T) {
	mockAlloc := new(MockContractAllocator)

	date := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	mockAlloc.On("AllocateContracts", mock.Anything, 0.9, date).Return(nil)

	handler := AllocateContracts(newTestLogger(), mockAlloc)

	req := httptest.NewRequest(http.MethodPost, "/api/contract/allocate",
		strings.NewReader(`{"date":"2024-05-31","coefficient":0.9}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "OK")
	mockAlloc.AssertExpectations(t)
}

func TestAllocateContracts_BadDate(t *testing.T) {
	mockAlloc := new(MockContractAllocator)
	handler := AllocateContracts(newTestLogger(), mockAlloc)

	req := httptest.NewRequest(http.MethodPost, "/api/contract/allocate",
		strings.NewReader(`{"date":"31/05/2024","coefficient":0.9}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockAlloc.AssertNotCalled(t, "AllocateContracts")
}

func TestAllocateContracts_NoPriorPeriod(t *testing.T) {
	mockAlloc := new(MockContractAllocator)

	mockAlloc.On("AllocateContracts", mock.Anything, 0.9, mock.Anything).
		Return(pipeline.ErrNoPriorPeriod)

	handler := AllocateContracts(newTestLogger(), mockAlloc)

	req := httptest.NewRequest(http.MethodPost, "/api/contract/allocate",
		strings.NewReader(`{"date":"2024-05-31","coefficient":0.9}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	mockAlloc.AssertExpectations(t)
}

func TestAllocateContracts_BadCoefficient(t *testing.T) {
	mockAlloc := new(MockContractAllocator)

	mockAlloc.On("AllocateContracts", mock.Anything, 0.0, mock.Anything).
		Return(pipeline.ErrBadParam)

	handler := AllocateContracts(newTestLogger(), mockAlloc)

	req := httptest.NewRequest(http.MethodPost, "/api/contract/allocate",
		strings.NewReader(`{"date":"2024-05-31"}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockAlloc.AssertExpectations(t)
}

func TestAllocateContracts_StorageError(t *testing.T) {
	mockAlloc := new(MockContractAllocator)

	mockAlloc.On("AllocateContracts", mock.Anything, 0.9, mock.Anything).
		Return(errors.New("connection timeout"))

	handler := AllocateContracts(newTestLogger(), mockAlloc)

	req := httptest.NewRequest(http.MethodPost, "/api/contract/allocate",
		strings.NewReader(`{"date":"2024-05-31","coefficient":0.9}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	mockAlloc.AssertExpectations(t)
}
