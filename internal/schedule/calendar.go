package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"alcyxob/trainer-scheduler/internal/domain"
)

// Granularity selects the calendar view.
type Granularity string

const (
	Month Granularity = "month"
	Week  Granularity = "week"
	Day   Granularity = "day"
)

const (
	monthRows = 6
	weekDays  = 7
)

// ParseGranularity accepts month, week or day. Empty defaults to month.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Month, nil
	case Month, Week, Day:
		return g, nil
	}
	return "", fmt.Errorf("unknown calendar view %q", s)
}

// Entry is a session together with its classification at projection time.
type Entry struct {
	domain.Session
	EffectiveStatus EffectiveStatus `json:"effective_status"`
	Phase           Phase           `json:"phase"`
}

// Classify pairs s with its effective status and phase at now.
func Classify(s domain.Session, now time.Time) Entry {
	return Entry{
		Session:         s,
		EffectiveStatus: EffectiveStatusAt(s, now),
		Phase:           PhaseAt(s, now),
	}
}

// ClassifyAll classifies every session, keeping input order.
func ClassifyAll(sessions []domain.Session, now time.Time) []Entry {
	entries := make([]Entry, len(sessions))
	for i, s := range sessions {
		entries[i] = Classify(s, now)
	}
	return entries
}

// Cell is one calendar day bucket.
type Cell struct {
	Date       domain.Date `json:"date"`
	OtherMonth bool        `json:"other_month"`
	Today      bool        `json:"today"`
	Sessions   []Entry     `json:"sessions"`
}

// View is a projected calendar.
type View struct {
	Granularity Granularity `json:"view"`
	Reference   domain.Date `json:"date"`
	Label       string      `json:"label"`
	Start       domain.Date `json:"start"`
	End         domain.Date `json:"end"` // Inclusive
	Cells       []Cell      `json:"cells"`
}

// Weeks splits the cells into rows of seven. Day views yield a single row.
func (v View) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(v.Cells); i += weekDays {
		end := i + weekDays
		if end > len(v.Cells) {
			end = len(v.Cells)
		}
		rows = append(rows, v.Cells[i:end])
	}
	return rows
}

// Project buckets sessions into the view of granularity g anchored at ref.
// It does not filter by status. Month and week buckets keep input order; the
// day bucket is stably sorted by zero-padded "HH:MM".
func Project(sessions []domain.Session, ref domain.Date, g Granularity, now time.Time) (View, error) {
	var start domain.Date
	var count int
	switch g {
	case Month:
		start = ref.FirstOfMonth().WeekStart()
		count = monthRows * weekDays
	case Week:
		start = ref.WeekStart()
		count = weekDays
	case Day:
		start = ref
		count = 1
	default:
		return View{}, fmt.Errorf("unknown calendar view %q", g)
	}
	end := start.AddDays(count - 1)

	byDate := make(map[domain.Date][]Entry)
	for _, s := range sessions {
		if s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		byDate[s.Date] = append(byDate[s.Date], Classify(s, now))
	}

	today := domain.DateOf(now)
	cells := make([]Cell, count)
	for i := range cells {
		d := start.AddDays(i)
		entries := byDate[d]
		if entries == nil {
			entries = []Entry{}
		}
		cells[i] = Cell{
			Date:       d,
			OtherMonth: g == Month && (d.Month != ref.Month || d.Year != ref.Year),
			Today:      d == today,
			Sessions:   entries,
		}
	}

	if g == Day {
		sort.SliceStable(cells[0].Sessions, func(i, j int) bool {
			return cells[0].Sessions[i].Time.String() < cells[0].Sessions[j].Time.String()
		})
	}

	return View{
		Granularity: g,
		Reference:   ref,
		Label:       Label(ref, g),
		Start:       start,
		End:         end,
		Cells:       cells,
	}, nil
}

// Label is the heading shown above a view.
func Label(ref domain.Date, g Granularity) string {
	t := ref.In(time.UTC)
	switch g {
	case Week:
		ws := ref.WeekStart()
		we := ws.AddDays(weekDays - 1)
		return ws.In(time.UTC).Format("Jan 2") + " - " + we.In(time.UTC).Format("Jan 2, 2006")
	case Day:
		return t.Format("Monday, January 2, 2006")
	default:
		return t.Format("January 2006")
	}
}

// Navigate moves ref by direction steps of the view's natural period.
func Navigate(ref domain.Date, g Granularity, direction int) domain.Date {
	switch g {
	case Month:
		return ref.AddMonths(direction)
	case Week:
		return ref.AddDays(direction * weekDays)
	default:
		return ref.AddDays(direction)
	}
}

// ExcludeTimeCompleted drops sessions whose effective status is timeCompleted.
func ExcludeTimeCompleted(sessions []domain.Session, now time.Time) []domain.Session {
	kept := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if EffectiveStatusAt(s, now) != EffectiveTimeCompleted {
			kept = append(kept, s)
		}
	}
	return kept
}

// ViewState is the caller-owned calendar context. Methods return new values.
type ViewState struct {
	TrainerID   string
	Granularity Granularity
	Date        domain.Date
}

func (s ViewState) WithGranularity(g Granularity) ViewState {
	s.Granularity = g
	return s
}

func (s ViewState) WithDate(d domain.Date) ViewState {
	s.Date = d
	return s
}

func (s ViewState) Navigate(direction int) ViewState {
	s.Date = Navigate(s.Date, s.Granularity, direction)
	return s
}
