package regularization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegularization_ChangesRecord(t *testing.T) {
	in := time.Date(2024, 1, 10, 9, 20, 0, 0, time.UTC)
	corrected := time.Date(2024, 1, 10, 8, 55, 0, 0, time.UTC)

	assert.False(t, Regularization{OriginalClockIn: &in, RequestedClockIn: &in}.ChangesRecord())
	assert.True(t, Regularization{OriginalClockIn: &in, RequestedClockIn: &corrected}.ChangesRecord())
	assert.True(t, Regularization{OriginalClockIn: &in, RequestedClockOut: &corrected}.ChangesRecord())
	assert.False(t, Regularization{OriginalClockIn: &in}.ChangesRecord())
}

func TestCreateRegularizationRequest_ParseTimes(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	in := "2024-01-10T08:55:00"
	bad := "soon"

	req := CreateRegularizationRequest{AttendanceRecordID: 1, RequestedClockIn: &in, Reason: "forgot"}
	require.NoError(t, req.Validate())

	gotIn, gotOut, err := req.ParseTimes(jakarta)
	require.NoError(t, err)
	assert.Nil(t, gotOut)
	assert.Equal(t, time.Date(2024, 1, 10, 1, 55, 0, 0, time.UTC), gotIn.UTC())

	req.RequestedClockOut = &bad
	_, _, err = req.ParseTimes(jakarta)
	assert.Error(t, err)
}

func TestCreateRegularizationRequest_Validate(t *testing.T) {
	req := CreateRegularizationRequest{}
	assert.Error(t, req.Validate())
}
