package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/scriptlab/internal/engine"
	"github.com/sakif/scriptlab/internal/handler"
)

// MockExecutor is a canned-response engine.Executor for handler tests,
// so no real process is ever launched.
type MockExecutor struct {
	CapturedReq engine.ExecutionRequest
	ReturnRes   engine.ExecutionResult
}

func (m *MockExecutor) Execute(ctx context.Context, req engine.ExecutionRequest) engine.ExecutionResult {
	m.CapturedReq = req
	return m.ReturnRes
}

func TestExecuteHandler_HandleExecute(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("successful run", func(t *testing.T) {
		mockExec := &MockExecutor{
			ReturnRes: engine.ExecutionResult{
				Status:   engine.StatusSuccess,
				Stdout:   "Hello World\n",
				ExitCode: 0,
				Duration: 100 * time.Millisecond,
			},
		}
		h := handler.NewExecuteHandler(mockExec, logger)

		reqBody := `{"code":"print('Hello World')","timeoutSeconds":10,"label":"demo"}`
		req := httptest.NewRequest(http.MethodPost, "/api/execute", bytes.NewBufferString(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res engine.ExecutionResult
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, engine.StatusSuccess, res.Status)
		assert.Equal(t, "Hello World\n", res.Stdout)
		assert.Equal(t, 0, res.ExitCode)

		assert.Equal(t, 10, mockExec.CapturedReq.TimeoutSeconds)
		assert.Equal(t, "demo", mockExec.CapturedReq.Label)
	})

	t.Run("failing script maps to 500", func(t *testing.T) {
		mockExec := &MockExecutor{
			ReturnRes: engine.ExecutionResult{
				Status:       engine.StatusFailure,
				Stderr:       "boom",
				ExitCode:     3,
				ErrorMessage: "Script exited with code 3",
			},
		}
		h := handler.NewExecuteHandler(mockExec, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/execute",
			bytes.NewBufferString(`{"code":"import sys; sys.exit(3)"}`))
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		// The body still carries the full result, failures included.
		var res engine.ExecutionResult
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "Script exited with code 3", res.ErrorMessage)
	})

	t.Run("timeout maps to 504", func(t *testing.T) {
		mockExec := &MockExecutor{
			ReturnRes: engine.ExecutionResult{
				Status:       engine.StatusTimedOut,
				Stderr:       "Script execution timed out after 5 seconds",
				ExitCode:     engine.SentinelExitCode,
				ErrorMessage: "Script execution timed out after 5 seconds",
			},
		}
		h := handler.NewExecuteHandler(mockExec, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/execute",
			bytes.NewBufferString(`{"code":"while True: pass","timeoutSeconds":5}`))
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	})

	t.Run("invalid request body", func(t *testing.T) {
		h := handler.NewExecuteHandler(&MockExecutor{}, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/execute",
			bytes.NewBufferString(`{"invalid_json":`))
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty code", func(t *testing.T) {
		h := handler.NewExecuteHandler(&MockExecutor{}, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/execute",
			bytes.NewBufferString(`{"code":"   "}`))
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("timeout over the cap", func(t *testing.T) {
		mockExec := &MockExecutor{}
		h := handler.NewExecuteHandler(mockExec, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/execute",
			bytes.NewBufferString(`{"code":"print(1)","timeoutSeconds":9999}`))
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		// The engine must never have been invoked.
		assert.Zero(t, mockExec.CapturedReq)
	})
}
