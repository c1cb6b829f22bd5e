package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGenerateSchedule_LeapYearMonthEnd(t *testing.T) {
	schedule, err := GenerateSchedule(dec("1000.00"), 3, date(2024, time.January, 31))
	require.NoError(t, err)
	require.Len(t, schedule, 3)

	want := []struct {
		due    time.Time
		amount string
	}{
		{date(2024, time.January, 31), "333.33"},
		{date(2024, time.February, 29), "333.33"},
		{date(2024, time.March, 29), "333.34"},
	}
	for i, w := range want {
		assert.Equal(t, i+1, schedule[i].Number())
		assert.Equal(t, w.due, schedule[i].DueDate(), "installment %d due date", i+1)
		assert.True(t, dec(w.amount).Equal(schedule[i].AmountDue()), "installment %d amount %s", i+1, schedule[i].AmountDue())
		assert.True(t, schedule[i].AmountPaid().IsZero())
		assert.Equal(t, valueobject.InstallmentPending, schedule[i].StoredStatus())
	}
}

func TestGenerateSchedule_NonLeapYearClampsToFeb28(t *testing.T) {
	schedule, err := GenerateSchedule(dec("300"), 4, date(2023, time.January, 31))
	require.NoError(t, err)

	assert.Equal(t, date(2023, time.February, 28), schedule[1].DueDate())
	assert.Equal(t, date(2023, time.March, 28), schedule[2].DueDate())
	assert.Equal(t, date(2023, time.April, 28), schedule[3].DueDate())
}

func TestGenerateSchedule_YearRollover(t *testing.T) {
	schedule, err := GenerateSchedule(dec("90"), 3, date(2024, time.November, 15))
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.December, 15), schedule[1].DueDate())
	assert.Equal(t, date(2025, time.January, 15), schedule[2].DueDate())
}

func TestGenerateSchedule_ExactSumAndRemainderOnLast(t *testing.T) {
	cases := []struct {
		principal string
		count     int
	}{
		{"1000.00", 3},
		{"100.00", 7},
		{"0.10", 3},
		{"12345.67", 12},
		{"999.99", 1},
		{"250.00", 4},
		{"10.00", 6},
		{"1.00", 3},
	}

	for _, tc := range cases {
		t.Run(tc.principal, func(t *testing.T) {
			principal := dec(tc.principal)
			schedule, err := GenerateSchedule(principal, tc.count, date(2024, time.May, 10))
			require.NoError(t, err)
			require.Len(t, schedule, tc.count)

			sum := decimal.Zero
			for _, inst := range schedule {
				sum = sum.Add(inst.AmountDue())
			}
			assert.True(t, principal.Equal(sum), "sum %s != principal %s", sum, principal)

			for i := 1; i < tc.count-1; i++ {
				assert.True(t, schedule[0].AmountDue().Equal(schedule[i].AmountDue()),
					"only the last installment may differ")
			}
		})
	}
}

func TestGenerateSchedule_NormalisesFirstDueDate(t *testing.T) {
	schedule, err := GenerateSchedule(dec("20"), 2, time.Date(2024, time.June, 3, 17, 45, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 3), schedule[0].DueDate())
}

func TestGenerateSchedule_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		count     int
		firstDue  time.Time
	}{
		{"zero principal", "0", 3, date(2024, 1, 1)},
		{"negative principal", "-10", 3, date(2024, 1, 1)},
		{"sub-cent principal", "10.005", 3, date(2024, 1, 1)},
		{"zero count", "100", 0, date(2024, 1, 1)},
		{"negative count", "100", -2, date(2024, 1, 1)},
		{"count above maximum", "100000", MaxInstallments + 1, date(2024, 1, 1)},
		{"huge count", "100", 1 << 30, date(2024, 1, 1)},
		{"missing date", "100", 3, time.Time{}},
		{"last installment would be zero", "0.02", 3, date(2024, 1, 1)},
		{"last installment would be negative", "0.05", 7, date(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSchedule(dec(tt.principal), tt.count, tt.firstDue)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
