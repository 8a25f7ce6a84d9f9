package reminder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

var now = time.Date(2025, 2, 20, 15, 30, 0, 0, time.UTC)

func debt(direction models.Direction, due time.Time) *models.DebtRecord {
	return &models.DebtRecord{
		ID:                  "debt-1",
		OwnerID:             "me",
		CounterpartyName:    "Rahul",
		CounterpartyContact: "+91 9876543210",
		Amount:              money.MustParse("2500"),
		Direction:           direction,
		Description:         "Dinner split payment",
		DueDate:             due,
		Status:              models.StatusPending,
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name      string
		direction models.Direction
		due       time.Time
		want      string
	}{
		{
			name:      "lent, overdue by several days",
			direction: models.DirectionLent,
			due:       time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
			want:      `Hi Rahul! This is a friendly reminder that you owe ₹2500.00 for "Dinner split payment". This payment was due 5 days ago. Please get in touch if you need more time. Thank you!`,
		},
		{
			name:      "lent, overdue by one day",
			direction: models.DirectionLent,
			due:       time.Date(2025, 2, 19, 23, 0, 0, 0, time.UTC),
			want:      `Hi Rahul! This is a friendly reminder that you owe ₹2500.00 for "Dinner split payment". This payment was due 1 day ago. Please get in touch if you need more time. Thank you!`,
		},
		{
			name:      "lent, due today",
			direction: models.DirectionLent,
			due:       time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC),
			want:      `Hi Rahul! This is a friendly reminder that you owe ₹2500.00 for "Dinner split payment". This payment is due today. Please get in touch if you need more time. Thank you!`,
		},
		{
			name:      "borrowed, due in the future",
			direction: models.DirectionBorrowed,
			due:       time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC),
			want:      `Hi Rahul! This is a reminder that I owe you ₹2500.00 for "Dinner split payment". This payment is due today. I will settle this amount soon. Thank you for your patience!`,
		},
		{
			name:      "borrowed, overdue",
			direction: models.DirectionBorrowed,
			due:       time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
			want:      `Hi Rahul! This is a reminder that I owe you ₹2500.00 for "Dinner split payment". This payment was due 10 days ago. I will settle this amount soon. Thank you for your patience!`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compose(debt(tt.direction, tt.due), now))
		})
	}
}

func TestCompose_Idempotent(t *testing.T) {
	d := debt(models.DirectionLent, now.AddDate(0, 0, -2))
	first := Compose(d, now)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, Compose(d, now))
		}()
	}
	wg.Wait()

	assert.Equal(t, models.StatusPending, d.Status)
}

func TestDaysOverdue_UsesNowLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on Feb 19 is already Feb 20 in IST.
	due := time.Date(2025, 2, 19, 20, 0, 0, 0, time.UTC)
	nowIST := time.Date(2025, 2, 21, 9, 0, 0, 0, ist)

	assert.Equal(t, 1, DaysOverdue(due, nowIST))
	assert.Equal(t, -1, DaysUntilDue(due, nowIST))
}

func TestIsOverdueAndDueSoon(t *testing.T) {
	overdue := debt(models.DirectionLent, now.AddDate(0, 0, -1))
	soon := debt(models.DirectionLent, now.AddDate(0, 0, 3))
	later := debt(models.DirectionLent, now.AddDate(0, 0, 4))
	paid := debt(models.DirectionLent, now.AddDate(0, 0, -9))
	paid.Status = models.StatusPaid

	assert.True(t, IsOverdue(overdue, now))
	assert.False(t, IsDueSoon(overdue, now))
	assert.True(t, IsDueSoon(soon, now))
	assert.False(t, IsDueSoon(later, now))
	assert.False(t, IsOverdue(paid, now))
	assert.False(t, IsDueSoon(paid, now))
}
