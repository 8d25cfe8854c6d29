package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/domain"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "", "NAME", "ICON"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		icon := p.Icon
		if icon == "" {
			icon = Placeholder()
		}
		rows = append(rows, []string{FormatID(p.ID), ProjectSwatch(p.Color), Bold(p.Name), icon})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProject renders one project's metadata card.
func FormatProject(p *domain.Project, now time.Time) string {
	var b strings.Builder
	b.WriteString(ProjectSwatch(p.Color) + " " + Bold(p.Name) + "\n\n")
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID     "), FormatID(p.ID))
	fmt.Fprintf(&b, "%s  %s\n", Dim("COLOR  "), p.Color)
	if p.Icon != "" {
		fmt.Fprintf(&b, "%s  %s\n", Dim("ICON   "), p.Icon)
	}
	fmt.Fprintf(&b, "%s  %s", Dim("UPDATED"), HumanTimestamp(p.UpdatedAt, now))
	return RenderBox("", b.String())
}

func FormatCurrencyList(currencies []*domain.Currency) string {
	rows := make([][]string, 0, len(currencies))
	for _, c := range currencies {
		rows = append(rows, []string{Bold(c.Code), c.Symbol, c.Name})
	}
	return RenderBox("Currencies", RenderTable([]string{"CODE", "SYMBOL", "NAME"}, rows))
}

func goalText(mode domain.CompletionMode, goal int) string {
	if mode == domain.CompletionByDuration {
		return FormatMinutes(goal)
	}
	return strconv.Itoa(goal) + "x"
}

// FormatHabitList shows each habit with its rule and goal.
func FormatHabitList(habits []*domain.Habit) string {
	if len(habits) == 0 {
		return Dim("No habits.") + "\n"
	}
	headers := []string{"ID", "TITLE", "MODE", "GOAL", "RULE", "STRICT"}
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rule := Placeholder()
		if h.Recurring() {
			rule = Dim(h.RecurrenceRule)
		}
		strict := ""
		if h.IsStrict {
			strict = StyleYellow.Render("!")
		}
		rows = append(rows, []string{
			FormatID(h.ID),
			Bold(h.Title),
			ModeBadge(h.CompletionMode),
			goalText(h.CompletionMode, h.CountGoal),
			rule,
			strict,
		})
	}
	return RenderBox("Habits", RenderTable(headers, rows))
}

// FormatSchedule answers when a habit is next due.
func FormatSchedule(s *contract.HabitSchedule, now time.Time) string {
	switch {
	case !s.Scheduled:
		return fmt.Sprintf("Habit %s has no recurrence rule.\n", FormatID(s.HabitID))
	case s.Ended():
		return fmt.Sprintf("Habit %s series has ended (%s).\n", FormatID(s.HabitID), Dim(s.Rule))
	default:
		return fmt.Sprintf("Habit %s next due %s %s\n",
			FormatID(s.HabitID),
			Bold(s.Next.Local().Format("Mon Jan 2, 2006 15:04")),
			Dim("("+RelativeDateFrom(*s.Next, now)+")"))
	}
}

// FormatOccurrences lists occurrence times one per line.
func FormatOccurrences(times []time.Time) string {
	if len(times) == 0 {
		return Dim("No occurrences.") + "\n"
	}
	var b strings.Builder
	for i, t := range times {
		fmt.Fprintf(&b, "%s  %s\n", Dim(fmt.Sprintf("%3d", i+1)), t.Local().Format("Mon 2006-01-02 15:04"))
	}
	return b.String()
}

// FormatTaskList shows tasks with their due dates relative to now.
func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}
	headers := []string{"ID", "TITLE", "MODE", "GOAL", "DUE", "HABIT"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		due := Placeholder()
		if t.DueDate != nil {
			due = DueDateStyled(*t.DueDate, now)
		}
		habit := ""
		if t.HabitID != nil {
			habit = FormatID(*t.HabitID)
		}
		rows = append(rows, []string{
			FormatID(t.ID),
			Bold(t.Title),
			ModeBadge(t.CompletionMode),
			goalText(t.CompletionMode, t.CountGoal),
			due,
			habit,
		})
	}
	return RenderBox("Tasks", RenderTable(headers, rows))
}

// FormatSessionList shows a task's sessions newest first.
func FormatSessionList(execs []*domain.TaskExecution, now time.Time) string {
	if len(execs) == 0 {
		return Dim("No sessions.") + "\n"
	}
	headers := []string{"ID", "STATE", "STARTED", "DURATION"}
	rows := make([][]string, 0, len(execs))
	for _, e := range execs {
		started := Placeholder()
		if e.StartTime != nil {
			started = HumanTimestamp(*e.StartTime, now)
		}
		duration := Placeholder()
		if mins, ok := e.DurationMinutes(); ok {
			duration = FormatMinutes(mins)
		} else if e.Active() {
			duration = StyleGreen.Render(FormatMinutes(int(now.Sub(*e.StartTime).Minutes())) + "+")
		}
		rows = append(rows, []string{FormatID(e.ID), SessionPill(e), started, duration})
	}
	t := Table{Headers: headers, Rows: rows, Align: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight}}
	return RenderBox("Sessions", t.Render())
}
