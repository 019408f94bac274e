// Package calendar lays scheduled workouts out on month, week and day grids
// and enforces the bookable working-hours window.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ViewMode selects the grid produced for a reference date.
type ViewMode string

const (
	Month ViewMode = "month"
	Week  ViewMode = "week"
	Day   ViewMode = "day"
)

// MonthCells is the fixed size of a month grid: six Monday-first weeks.
const MonthCells = 42

var (
	ErrOutsideWorkingHours = errors.New("workout must start and end within working hours")
	ErrInvalidDuration     = errors.New("workout must end after it starts")
	ErrInvalidViewMode     = errors.New("unknown calendar view mode")
	ErrInvalidDate         = errors.New("date must be formatted as YYYY-MM-DD")
)

// ParseViewMode accepts "month", "week" or "day". Empty means month.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "", Month:
		return Month, nil
	case Week:
		return Week, nil
	case Day:
		return Day, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
}

// WorkingHours is the bookable window, [Start:00, End:00] of each day.
type WorkingHours struct {
	Start int
	End   int
}

var DefaultWorkingHours = WorkingHours{Start: 8, End: 21}

// Event is anything with a start instant that should appear on the grid.
type Event struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ClientID   string    `json:"clientId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

type Cell struct {
	Date           time.Time `json:"date"`
	IsCurrentMonth bool      `json:"isCurrentMonth"`
	IsToday        bool      `json:"isToday"`
	Events         []Event   `json:"events"`
}

type Slot struct {
	Hour   int     `json:"hour"`
	Label  string  `json:"label"`
	Events []Event `json:"events"`
}

// DayView holds hourly slots. Events starting outside the slot range are
// kept in Unslotted so nothing scheduled disappears from the view.
type DayView struct {
	Date      time.Time `json:"date"`
	IsToday   bool      `json:"isToday"`
	Slots     []Slot    `json:"slots"`
	Unslotted []Event   `json:"unslotted"`
}

// Settings configure a Calendar. Zero values fall back to UTC, the default
// working hours, slots Start..End-1 and time.Now.
type Settings struct {
	Location  *time.Location
	Hours     WorkingHours
	FirstSlot int
	LastSlot  int
	Now       func() time.Time
}

// Calendar performs all date arithmetic in one location.
type Calendar struct {
	loc       *time.Location
	hours     WorkingHours
	firstSlot int
	lastSlot  int
	now       func() time.Time
}

func New(s Settings) *Calendar {
	c := &Calendar{
		loc:       s.Location,
		hours:     s.Hours,
		firstSlot: s.FirstSlot,
		lastSlot:  s.LastSlot,
		now:       s.Now,
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	if c.hours.End <= c.hours.Start {
		c.hours = DefaultWorkingHours
	}
	if c.lastSlot < c.firstSlot || (c.firstSlot == 0 && c.lastSlot == 0) {
		c.firstSlot, c.lastSlot = c.hours.Start, c.hours.End-1
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Calendar) Location() *time.Location { return c.loc }

func (c *Calendar) Hours() WorkingHours { return c.hours }

// Today is midnight of the current day.
func (c *Calendar) Today() time.Time {
	return c.startOfDay(c.now())
}

// ParseDate reads a YYYY-MM-DD day in the calendar location. Empty means today.
func (c *Calendar) ParseDate(s string) (time.Time, error) {
	if s == "" {
		return c.Today(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func (c *Calendar) startOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

func (c *Calendar) addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, c.loc)
}

// startOfWeek returns the Monday of t's week. Sunday belongs to the week
// that started six days earlier.
func (c *Calendar) startOfWeek(t time.Time) time.Time {
	day := c.startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return c.addDays(day, -offset)
}

func (c *Calendar) firstOfMonth(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, c.loc)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// bucket groups events by the local day they start on, ordered by start.
func (c *Calendar) bucket(events []Event) map[string][]Event {
	byDay := make(map[string][]Event)
	for _, ev := range events {
		key := dayKey(ev.Start.In(c.loc))
		byDay[key] = append(byDay[key], ev)
	}
	for _, evs := range byDay {
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].Start.Before(evs[j].Start) })
	}
	return byDay
}

func (c *Calendar) cells(from time.Time, n int, month time.Month, events []Event) []Cell {
	byDay := c.bucket(events)
	today := dayKey(c.Today())

	cells := make([]Cell, n)
	for i := range cells {
		date := c.addDays(from, i)
		key := dayKey(date)
		cells[i] = Cell{
			Date:           date,
			IsCurrentMonth: date.Month() == month,
			IsToday:        key == today,
			Events:         byDay[key],
		}
		if cells[i].Events == nil {
			cells[i].Events = []Event{}
		}
	}
	return cells
}

// MonthGrid returns exactly 42 Monday-first cells covering ref's month.
func (c *Calendar) MonthGrid(ref time.Time, events []Event) []Cell {
	first := c.firstOfMonth(ref)
	return c.cells(c.startOfWeek(first), MonthCells, first.Month(), events)
}

// WeekGrid returns the seven days from the Monday of ref's week.
func (c *Calendar) WeekGrid(ref time.Time, events []Event) []Cell {
	return c.cells(c.startOfWeek(ref), 7, ref.In(c.loc).Month(), events)
}

// DayGrid places the day's events in the slot matching their start hour.
func (c *Calendar) DayGrid(ref time.Time, events []Event) DayView {
	day := c.startOfDay(ref)
	view := DayView{
		Date:      day,
		IsToday:   dayKey(day) == dayKey(c.Today()),
		Slots:     make([]Slot, 0, c.lastSlot-c.firstSlot+1),
		Unslotted: []Event{},
	}

	index := make(map[int]int)
	for h := c.firstSlot; h <= c.lastSlot; h++ {
		index[h] = len(view.Slots)
		view.Slots = append(view.Slots, Slot{Hour: h, Label: fmt.Sprintf("%02d:00", h), Events: []Event{}})
	}

	for _, ev := range c.bucket(events)[dayKey(day)] {
		if i, ok := index[ev.Start.In(c.loc).Hour()]; ok {
			view.Slots[i].Events = append(view.Slots[i].Events, ev)
			continue
		}
		view.Unslotted = append(view.Unslotted, ev)
	}
	return view
}

// Navigate shifts ref by delta months, weeks or days. Month steps land on
// the first of the target month so that Jan 31 + 1 is Feb 1, not Mar 2.
func (c *Calendar) Navigate(ref time.Time, mode ViewMode, delta int) time.Time {
	ref = ref.In(c.loc)
	switch mode {
	case Week:
		return c.addDays(ref, 7*delta)
	case Day:
		return c.addDays(ref, delta)
	default:
		return time.Date(ref.Year(), ref.Month()+time.Month(delta), 1, 0, 0, 0, 0, c.loc)
	}
}

// Range is the half-open [from, to) interval of instants shown by the view.
// For months it spans the whole 42-cell grid, adjacent-month days included.
func (c *Calendar) Range(ref time.Time, mode ViewMode) (from, to time.Time) {
	switch mode {
	case Week:
		from = c.startOfWeek(ref)
		return from, c.addDays(from, 7)
	case Day:
		from = c.startOfDay(ref)
		return from, c.addDays(from, 1)
	default:
		from = c.startOfWeek(c.firstOfMonth(ref))
		return from, c.addDays(from, MonthCells)
	}
}

// ValidateSlot checks that a workout starting at start and lasting duration
// fits the working hours of its start day. Ending exactly at End:00 is allowed.
func (c *Calendar) ValidateSlot(start time.Time, duration time.Duration) error {
	if duration <= 0 {
		return ErrInvalidDuration
	}
	local := start.In(c.loc)
	if h := local.Hour(); h < c.hours.Start || h >= c.hours.End {
		return fmt.Errorf("%w: starts at %s", ErrOutsideWorkingHours, local.Format("15:04"))
	}
	closing := time.Date(local.Year(), local.Month(), local.Day(), c.hours.End, 0, 0, 0, c.loc)
	if end := local.Add(duration); end.After(closing) {
		return fmt.Errorf("%w: ends at %s", ErrOutsideWorkingHours, end.Format("15:04"))
	}
	return nil
}

// TimeOptions lists the half-hour start times offered by the scheduling form.
func (c *Calendar) TimeOptions() []string {
	options := make([]string, 0, (c.hours.End-c.hours.Start)*2)
	for h := c.hours.Start; h < c.hours.End; h++ {
		options = append(options, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return options
}

// DefaultStart is the form's preselected start: the current hour when it is
// bookable, otherwise the opening hour of today or, after closing, tomorrow.
func (c *Calendar) DefaultStart(now time.Time) time.Time {
	local := now.In(c.loc)
	day := c.startOfDay(local)
	switch h := local.Hour(); {
	case h < c.hours.Start:
		return time.Date(day.Year(), day.Month(), day.Day(), c.hours.Start, 0, 0, 0, c.loc)
	case h >= c.hours.End:
		next := c.addDays(day, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), c.hours.Start, 0, 0, 0, c.loc)
	default:
		return time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, c.loc)
	}
}
