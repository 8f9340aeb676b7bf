package domain

import "time"

// Month and Day are the layouts used to scope progress and completion marks.
const (
	MonthLayout = "2006-01"
	DayLayout   = "2006-01-02"
)

// Progress counts the sessions finished in a month against a target.
// 1 <= Target <= 60 and 0 <= Done <= Target.
type Progress struct {
	Target int `bson:"target" json:"target"`
	Done   int `bson:"done" json:"done"`
}

// Marks maps the position of an item in a session to its done flag for one day.
type Marks map[int]bool

// MonthOf formats the month tag of t.
func MonthOf(t time.Time) string {
	return t.Format(MonthLayout)
}

// DayOf formats the day tag of t.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}
