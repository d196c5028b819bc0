package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/pkg/logger"
)

func TestRespondFailure(t *testing.T) {
	key := period.MustKey(2023, 6)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid argument", fmt.Errorf("%w: month 13", contracts.ErrInvalidArgument), http.StatusBadRequest},
		{"unavailable", contracts.Unavailable(key, nil), http.StatusNotFound},
		{"timeout", contracts.TimedOut(key, errors.New("deadline")), http.StatusNotFound},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondFailure(rec, logger.Nop(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
