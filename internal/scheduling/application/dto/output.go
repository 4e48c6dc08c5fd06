package dto

import (
	"encoding/json"

	"github.com/calendraio/calendra/internal/scheduling/domain"
)

const dayLayout = "2006-01-02"

// TaskOutput is the wire shape of one scheduled task.
type TaskOutput struct {
	TaskID   string `json:"taskid"`
	GoalID   string `json:"goalid"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Start    string `json:"start"`
	Deadline string `json:"deadline"`
}

// ScheduledDayOutput groups TaskOutputs by calendar day.
type ScheduledDayOutput struct {
	Day   string       `json:"day"`
	Tasks []TaskOutput `json:"tasks"`
}

// ImpossibleOutput is the wire shape of one impossible activity.
type ImpossibleOutput struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	HoursMissing int    `json:"hours_missing"`
}

// Output is the wire shape of FinalTasks.
type Output struct {
	Scheduled  []ScheduledDayOutput `json:"scheduled"`
	Impossible []ImpossibleOutput   `json:"impossible"`
}

// RenderOutput translates domain.FinalTasks into its wire shape.
func RenderOutput(final domain.FinalTasks) Output {
	out := Output{
		Scheduled:  make([]ScheduledDayOutput, 0, len(final.Scheduled)),
		Impossible: make([]ImpossibleOutput, 0, len(final.Impossible)),
	}
	for _, day := range final.Scheduled {
		tasks := make([]TaskOutput, 0, len(day.Tasks))
		for _, t := range day.Tasks {
			tasks = append(tasks, TaskOutput{
				TaskID:   t.TaskID,
				GoalID:   t.GoalID,
				Title:    t.Title,
				Duration: t.Duration,
				Start:    t.Start.Format(naiveLayout),
				Deadline: t.Deadline.Format(naiveLayout),
			})
		}
		out.Scheduled = append(out.Scheduled, ScheduledDayOutput{
			Day:   day.Day.Format(dayLayout),
			Tasks: tasks,
		})
	}
	for _, imp := range final.Impossible {
		out.Impossible = append(out.Impossible, ImpossibleOutput{
			ID:           imp.GoalID,
			Title:        imp.Title,
			HoursMissing: imp.HoursMissing,
		})
	}
	return out
}

// MarshalJSON renders final as indented JSON in its documented Output shape.
func MarshalJSON(final domain.FinalTasks) ([]byte, error) {
	return json.MarshalIndent(RenderOutput(final), "", "  ")
}
