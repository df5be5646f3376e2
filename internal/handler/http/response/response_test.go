package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSuccessEnvelopes(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Created", map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Created", body.Message)
	assert.Nil(t, body.Error)

	rec = httptest.NewRecorder()
	SuccessWithMeta(rec, []int{1, 2}, NewMeta(2, 10, 12, 2))
	body = decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, int64(12), body.Meta.TotalItems)
}

func TestHandleError(t *testing.T) {
	var fields validator.ValidationErrors
	fields.Add("requested_clock_in", "must fall on 2024-01-10")

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", fields, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"wrapped not found", fmt.Errorf("load: %w", attendance.ErrAttendanceNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"permission", user.ErrInsufficientPermissions, http.StatusForbidden, "FORBIDDEN"},
		{"state", attendance.ErrAlreadyCheckedIn, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}

	rec := httptest.NewRecorder()
	HandleError(rec, fields)
	body := decode(t, rec)
	assert.Equal(t, "must fall on 2024-01-10", body.Error.Details["requested_clock_in"])
}
