package wfh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWFHRequest_LegacyRequestDate(t *testing.T) {
	req := CreateWFHRequest{RequestDate: "2024-03-04", Reason: "plumber visit"}
	require.NoError(t, req.Validate())

	start, end := req.Range()
	assert.Equal(t, start, end)
	assert.Equal(t, 1, WFHRequest{StartDate: start, EndDate: end}.Days())
}

func TestCreateWFHRequest_Range(t *testing.T) {
	req := CreateWFHRequest{StartDate: "2024-03-04", EndDate: "2024-03-06", Reason: "move"}
	require.NoError(t, req.Validate())

	start, end := req.Range()
	assert.Equal(t, 3, WFHRequest{StartDate: start, EndDate: end}.Days())
	assert.Equal(t, time.March, end.Month())
}

func TestCreateWFHRequest_Invalid(t *testing.T) {
	req := CreateWFHRequest{StartDate: "2024-03-06", EndDate: "2024-03-04"}
	assert.Error(t, req.Validate())
}
