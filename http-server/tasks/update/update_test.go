package update

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mes-scheduler/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUpdateTask struct {
	mock.Mock
}

func (m *MockUpdateTask) GetTask(ctx context.Context, taskID int64) (*storage.ProductionTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ProductionTask), args.Error(1)
}

func (m *MockUpdateTask) UpdateTaskStatus(ctx context.Context, taskID int64, from, to string) error {
	args := m.Called(ctx, taskID, from, to)
	return args.Error(0)
}

func newTaskRouter(mockUpdate *MockUpdateTask) *chi.Mux {
	router := chi.NewRouter()
	router.Put("/api/scheduling/tasks/{id}/status", UpdateTaskState(slog.Default(), mockUpdate))
	router.Delete("/api/scheduling/tasks/{id}", CancelTask(slog.Default(), mockUpdate))
	return router
}

func TestUpdateTaskState_Success(t *testing.T) {
	mockUpdate := new(MockUpdateTask)
	mockUpdate.On("GetTask", mock.Anything, int64(5)).Return(&storage.ProductionTask{
		ID:     5,
		Status: storage.TaskStatusPending,
	}, nil)
	mockUpdate.On("UpdateTaskStatus", mock.Anything, int64(5), storage.TaskStatusPending, storage.TaskStatusInProgress).Return(nil)

	router := newTaskRouter(mockUpdate)

	req := httptest.NewRequest(http.MethodPut, "/api/scheduling/tasks/5/status", strings.NewReader(`{"status": "in_progress"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockUpdate.AssertExpectations(t)
}

func TestUpdateTaskState_InvalidTransition(t *testing.T) {
	mockUpdate := new(MockUpdateTask)
	mockUpdate.On("GetTask", mock.Anything, int64(5)).Return(&storage.ProductionTask{
		ID:     5,
		Status: storage.TaskStatusCompleted,
	}, nil)

	router := newTaskRouter(mockUpdate)

	req := httptest.NewRequest(http.MethodPut, "/api/scheduling/tasks/5/status", strings.NewReader(`{"status": "in_progress"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_state_transition")

	// The guarded update never ran.
	mockUpdate.AssertNotCalled(t, "UpdateTaskStatus")
}

func TestUpdateTaskState_NotFound(t *testing.T) {
	mockUpdate := new(MockUpdateTask)
	mockUpdate.On("GetTask", mock.Anything, int64(404)).Return(nil, storage.ErrNotFound)

	router := newTaskRouter(mockUpdate)

	req := httptest.NewRequest(http.MethodPut, "/api/scheduling/tasks/404/status", strings.NewReader(`{"status": "in_progress"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateTaskState_ConcurrentModification(t *testing.T) {
	mockUpdate := new(MockUpdateTask)
	mockUpdate.On("GetTask", mock.Anything, int64(5)).Return(&storage.ProductionTask{
		ID:     5,
		Status: storage.TaskStatusPending,
	}, nil)
	// Someone else moved the task between read and write.
	mockUpdate.On("UpdateTaskStatus", mock.Anything, int64(5), storage.TaskStatusPending, storage.TaskStatusInProgress).Return(storage.ErrModified)

	router := newTaskRouter(mockUpdate)

	req := httptest.NewRequest(http.MethodPut, "/api/scheduling/tasks/5/status", strings.NewReader(`{"status": "in_progress"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "concurrent_modification")
}

func TestUpdateTaskState_InvalidID(t *testing.T) {
	mockUpdate := new(MockUpdateTask)

	router := newTaskRouter(mockUpdate)

	req := httptest.NewRequest(http.MethodPut, "/api/scheduling/tasks/abc/status", strings.NewReader(`{"status": "in_progress"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockUpdate.AssertNotCalled(t, "GetTask")
}

func TestCancelTask_Success(t *testing.T) {
	mockUpdate := new(MockUpdateTask)
	mockUpdate.On("GetTask", mock.Anything, int64(7)).Return(&storage.ProductionTask{
		ID:     7,
		Status: storage.TaskStatusPaused,
	}, nil)
	mockUpdate.On("UpdateTaskStatus", mock.Anything, int64(7), storage.TaskStatusPaused, storage.TaskStatusCancelled).Return(nil)

	router := newTaskRouter(mockUpdate)

	req := httptest.NewRequest(http.MethodDelete, "/api/scheduling/tasks/7", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockUpdate.AssertExpectations(t)
}

func TestCancelTask_AlreadyTerminal(t *testing.T) {
	mockUpdate := new(MockUpdateTask)
	mockUpdate.On("GetTask", mock.Anything, int64(7)).Return(&storage.ProductionTask{
		ID:     7,
		Status: storage.TaskStatusCancelled,
	}, nil)

	router := newTaskRouter(mockUpdate)

	req := httptest.NewRequest(http.MethodDelete, "/api/scheduling/tasks/7", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_state_transition")
	mockUpdate.AssertNotCalled(t, "UpdateTaskStatus")
}
