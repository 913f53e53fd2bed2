package execute

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mes-scheduler/internal/service/scheduling"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) ExecuteScheduling(ctx context.Context) (*scheduling.RunSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.RunSummary), args.Error(1)
}

func TestExecuteScheduling_Success(t *testing.T) {
	mockExecutor := new(MockExecutor)
	mockExecutor.On("ExecuteScheduling", mock.Anything).Return(&scheduling.RunSummary{
		RunID:          "run-1",
		ScheduledCount: 2,
		FailedCount:    1,
		Failures: []scheduling.PlanFailure{
			{PlanID: 200, PlanNumber: "P-200", ErrorKind: scheduling.ErrKindNoCompatibleDevice},
		},
	}, nil)

	handler := ExecuteScheduling(slog.Default(), mockExecutor)

	req := httptest.NewRequest(http.MethodPost, "/api/scheduling/execute", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, "run-1", resp.Summary.RunID)
	assert.Equal(t, 2, resp.Summary.ScheduledCount)
	assert.Equal(t, 1, resp.Summary.FailedCount)
	require.Len(t, resp.Summary.Failures, 1)
	assert.Equal(t, scheduling.ErrKindNoCompatibleDevice, resp.Summary.Failures[0].ErrorKind)
	assert.Empty(t, resp.Error)

	mockExecutor.AssertExpectations(t)
}

func TestExecuteScheduling_AlreadyRunning(t *testing.T) {
	mockExecutor := new(MockExecutor)
	mockExecutor.On("ExecuteScheduling", mock.Anything).Return(nil, scheduling.ErrSchedulingInProgress)

	handler := ExecuteScheduling(slog.Default(), mockExecutor)

	req := httptest.NewRequest(http.MethodPost, "/api/scheduling/execute", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	var resp Response
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	require.NoError(t, err)
	assert.Equal(t, scheduling.ErrKindSchedulingInProgress, resp.Error)
	assert.Nil(t, resp.Summary)

	mockExecutor.AssertExpectations(t)
}

func TestExecuteScheduling_RunFailure(t *testing.T) {
	mockExecutor := new(MockExecutor)
	mockExecutor.On("ExecuteScheduling", mock.Anything).Return(nil, assert.AnError)

	handler := ExecuteScheduling(slog.Default(), mockExecutor)

	req := httptest.NewRequest(http.MethodPost, "/api/scheduling/execute", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "scheduling run failed")

	mockExecutor.AssertExpectations(t)
}
