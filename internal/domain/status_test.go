package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		wantErr error
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, nil},
		{"pending to cancelled", StatusPending, StatusCancelled, nil},
		{"pending to failed", StatusPending, StatusFailed, nil},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, nil},
		{"rescheduled to cancelled", StatusRescheduled, StatusCancelled, nil},
		{"confirmed to failed", StatusConfirmed, StatusFailed, ErrIllegalTransition},
		{"confirmed to pending", StatusConfirmed, StatusPending, ErrIllegalTransition},
		{"pending to rescheduled", StatusPending, StatusRescheduled, ErrIllegalTransition},
		{"confirmed to rescheduled via status", StatusConfirmed, StatusRescheduled, ErrIllegalTransition},
		{"confirmed to confirmed", StatusConfirmed, StatusConfirmed, ErrIllegalTransition},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, ErrAlreadyTerminal},
		{"failed to cancelled", StatusFailed, StatusCancelled, ErrAlreadyTerminal},
		{"unknown target", StatusPending, BookingStatus("done"), ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckReschedule(t *testing.T) {
	assert.NoError(t, CheckReschedule(StatusConfirmed))
	assert.NoError(t, CheckReschedule(StatusRescheduled))
	assert.ErrorIs(t, CheckReschedule(StatusPending), ErrIllegalTransition)
	assert.ErrorIs(t, CheckReschedule(StatusCancelled), ErrAlreadyTerminal)
	assert.ErrorIs(t, CheckReschedule(StatusFailed), ErrAlreadyTerminal)
}

func TestCheckReason(t *testing.T) {
	assert.NoError(t, CheckReason(StatusCancelled, strPtr("client is sick")))
	assert.ErrorIs(t, CheckReason(StatusCancelled, nil), ErrCancellationReasonRequired)
	assert.ErrorIs(t, CheckReason(StatusCancelled, strPtr("   ")), ErrCancellationReasonRequired)
	assert.NoError(t, CheckReason(StatusConfirmed, nil))
	assert.ErrorIs(t, CheckReason(StatusConfirmed, strPtr("because")), ErrReasonNotAccepted)

	long := make([]byte, MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, CheckReason(StatusCancelled, strPtr(string(long))), ErrReasonTooLong)
}

func TestWorkingSchedule_Validate(t *testing.T) {
	valid := WorkingSchedule{ProviderID: "p1", StartTime: "09:00", EndTime: "18:00", SlotMinutes: 30}
	assert.NoError(t, valid.Validate())

	reversed := valid
	reversed.StartTime, reversed.EndTime = "18:00", "09:00"
	assert.ErrorIs(t, reversed.Validate(), ErrInvalidSchedule)

	tooFine := valid
	tooFine.SlotMinutes = 1
	assert.ErrorIs(t, tooFine.Validate(), ErrInvalidSchedule)

	badTime := valid
	badTime.StartTime = "9:00"
	assert.ErrorIs(t, badTime.Validate(), ErrInvalidSchedule)
}

func TestWorkingSchedule_Contains(t *testing.T) {
	s := WorkingSchedule{StartTime: "09:00", EndTime: "18:00", SlotMinutes: 30}

	assert.True(t, s.Contains("09:00", "09:30"))
	assert.True(t, s.Contains("17:30", "18:00"))
	assert.False(t, s.Contains("08:30", "09:30"))
	assert.False(t, s.Contains("17:45", "18:15"))
}

func TestSlot_Period(t *testing.T) {
	assert.Equal(t, PeriodMorning, (&Slot{StartTime: "11:30"}).Period())
	assert.Equal(t, PeriodAfternoon, (&Slot{StartTime: "12:00"}).Period())
	assert.Equal(t, PeriodEvening, (&Slot{StartTime: "17:00"}).Period())
}
