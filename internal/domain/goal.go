package domain

import (
	"math"
	"time"
)

// ReadingGoal is the reading target for one calendar year.
type ReadingGoal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Year        int       `json:"year"`
	TargetBooks int       `json:"targetBooks"`
	TargetPages *int      `json:"targetPages,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GoalProgress is derived from the read books of a year.
type GoalProgress struct {
	Goal         *ReadingGoal `json:"goal"`
	BooksRead    int          `json:"booksRead"`
	PagesRead    int          `json:"pagesRead"`
	BookProgress int          `json:"bookProgress"`
	PageProgress int          `json:"pageProgress"`
	Year         int          `json:"year"`
}

// Percent returns done/target as a rounded percentage capped at 100.
// A non-positive target yields 0.
func Percent(done, target int) int {
	if target <= 0 {
		return 0
	}
	return min(100, int(math.Round(float64(done)/float64(target)*100)))
}

// YearBounds returns [start of year, start of next year) in loc.
func YearBounds(year int, loc *time.Location) (start, end time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}

// ComputeProgress tallies the books finished in year against goal.
func ComputeProgress(goal *ReadingGoal, books []*Book, year int, loc *time.Location) *GoalProgress {
	start, end := YearBounds(year, loc)
	p := &GoalProgress{Goal: goal, Year: year}
	for _, b := range books {
		if b.Status != BookStatusRead || b.FinishedAt == nil {
			continue
		}
		if b.FinishedAt.Before(start) || !b.FinishedAt.Before(end) {
			continue
		}
		p.BooksRead++
		p.PagesRead += b.Pages()
	}
	if goal != nil {
		p.BookProgress = Percent(p.BooksRead, goal.TargetBooks)
		if goal.TargetPages != nil {
			p.PageProgress = Percent(p.PagesRead, *goal.TargetPages)
		}
	}
	return p
}
