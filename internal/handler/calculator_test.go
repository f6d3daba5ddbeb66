package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/scriptlab/internal/handler"
)

func TestCalculatorHandler_HandleCalculate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := handler.NewCalculatorHandler(logger)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.HandleCalculate(rr, req)
		return rr
	}

	t.Run("divide", func(t *testing.T) {
		rr := post(`{"operation":"divide","a":10,"b":4}`)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Result float64 `json:"result"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, 2.5, res.Result)
	})

	t.Run("operator alias", func(t *testing.T) {
		rr := post(`{"operation":"+","a":2,"b":3}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"result":5`)
	})

	t.Run("divide by zero", func(t *testing.T) {
		rr := post(`{"operation":"divide","a":1,"b":0}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var res handler.ErrorResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "validation_error", res.Error)
		assert.Equal(t, "Cannot divide by zero", res.Message)
	})

	t.Run("unknown operation", func(t *testing.T) {
		rr := post(`{"operation":"modulo","a":7,"b":3}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		rr := post(`{"operation":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
