package dates_test

import (
	"testing"
	"time"

	"todoCalendar/internal/dates"
	"todoCalendar/internal/models/todo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("часовой пояс %s недоступен: %v", name, err)
	}
	return loc
}

// TestMonthGrid_Properties проверяет сетку для каждого месяца нескольких лет
func TestMonthGrid_Properties(t *testing.T) {
	locations := []*time.Location{time.UTC, mustLoc(t, "Asia/Seoul"), mustLoc(t, "America/New_York")}

	for _, loc := range locations {
		for year := 2023; year <= 2027; year++ {
			for month := time.January; month <= time.December; month++ {
				ref := time.Date(year, month, 15, 13, 30, 0, 0, loc)
				grid := dates.MonthGrid(ref)

				require.NotEmpty(t, grid)
				assert.Zero(t, len(grid)%7, "%s: длина %d не кратна 7", ref.Format("2006-01"), len(grid))
				assert.GreaterOrEqual(t, len(grid), 28)
				assert.LessOrEqual(t, len(grid), 42)
				assert.Equal(t, time.Sunday, grid[0].Weekday())
				assert.Equal(t, time.Saturday, grid[len(grid)-1].Weekday())

				for i := 1; i < len(grid); i++ {
					assert.Equal(t, grid[i-1].AddDate(0, 0, 1), grid[i], "дни должны идти подряд")
				}

				daysInMonth := dates.DaysInMonth(year, month, loc)
				for day := 1; day <= daysInMonth; day++ {
					target := time.Date(year, month, day, 0, 0, 0, 0, loc)
					found := false
					for _, cell := range grid {
						if cell.Equal(target) {
							found = true
							break
						}
					}
					assert.True(t, found, "день %s отсутствует в сетке", target.Format("2006-01-02"))
				}
			}
		}
	}
}

func TestMonthGrid_KnownMonths(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		wantLen   int
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "February 2026 fits in four weeks",
			ref:       time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
			wantLen:   28,
			wantFirst: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "October 2026 spans five weeks",
			ref:       time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC),
			wantLen:   35,
			wantFirst: time.Date(2026, time.September, 27, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "December 2026 rolls into January",
			ref:       time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC),
			wantLen:   35,
			wantFirst: time.Date(2026, time.November, 29, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2027, time.January, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "August 2026 needs six weeks",
			ref:       time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
			wantLen:   42,
			wantFirst: time.Date(2026, time.July, 26, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := dates.MonthGrid(tt.ref)
			require.Len(t, grid, tt.wantLen)
			assert.Equal(t, tt.wantFirst, grid[0])
			assert.Equal(t, tt.wantLast, grid[len(grid)-1])
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"clamps to end of February", time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC), 1, time.Date(2026, time.February, 28, 10, 0, 0, 0, time.UTC)},
		{"leap year February", time.Date(2028, time.January, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{"December to January", time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC), 1, time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"January back to December", time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC), -1, time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC)},
		{"March 31 back to February", time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), -1, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dates.AddMonths(tt.in, tt.n))
		})
	}
}

func TestBucketByDay(t *testing.T) {
	loc := mustLoc(t, "Asia/Seoul")
	day := time.Date(2026, time.October, 15, 0, 0, 0, 0, loc)

	at := func(y int, m time.Month, d, h, min int, l *time.Location) *time.Time {
		v := time.Date(y, m, d, h, min, 0, 0, l)
		return &v
	}

	morning := todo.Todo{ID: uuid.New(), Text: "morning", DueDate: at(2026, time.October, 15, 0, 0, loc)}
	night := todo.Todo{ID: uuid.New(), Text: "night", DueDate: at(2026, time.October, 15, 23, 59, loc)}
	// 14 октября 16:30 UTC это уже 15 октября в Сеуле
	utcSameDay := todo.Todo{ID: uuid.New(), Text: "utc", DueDate: at(2026, time.October, 14, 16, 30, time.UTC)}
	nextDay := todo.Todo{ID: uuid.New(), Text: "next", DueDate: at(2026, time.October, 16, 0, 0, loc)}
	otherMonth := todo.Todo{ID: uuid.New(), Text: "november", DueDate: at(2026, time.November, 15, 12, 0, loc)}
	noDue := todo.Todo{ID: uuid.New(), Text: "no deadline"}

	todos := []todo.Todo{night, noDue, nextDay, morning, otherMonth, utcSameDay}

	bucket := dates.BucketByDay(todos, day)
	require.Len(t, bucket, 3)
	assert.Equal(t, "night", bucket[0].Text)
	assert.Equal(t, "morning", bucket[1].Text)
	assert.Equal(t, "utc", bucket[2].Text)

	assert.Empty(t, dates.BucketByDay([]todo.Todo{noDue}, day))
	assert.Empty(t, dates.BucketByDay(nil, day))
}

func TestBucketByDay_IffSameLocalDay(t *testing.T) {
	base := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	var todos []todo.Todo
	for h := 0; h < 24*10; h += 5 {
		due := base.Add(time.Duration(h) * time.Hour)
		todos = append(todos, todo.Todo{ID: uuid.New(), DueDate: &due})
	}

	for _, day := range dates.MonthGrid(base) {
		bucket := dates.BucketByDay(todos, day)
		inBucket := make(map[uuid.UUID]bool, len(bucket))
		for _, b := range bucket {
			inBucket[b.ID] = true
		}
		for _, td := range todos {
			assert.Equal(t, dates.SameDay(*td.DueDate, day), inBucket[td.ID])
		}
	}
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2026, time.October, 31, 23, 0, 0, 0, time.UTC)
	assert.True(t, dates.SameMonth(a, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, dates.SameMonth(a, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, dates.SameMonth(a, time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)))
}
