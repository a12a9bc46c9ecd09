// Package cost accrues a fixed charge per executed command, in total and per
// task, and enforces the configured spending limit.
package cost

import (
	"fmt"
	"math"
	"sort"

	"taskshell.dev/taskshell/internal/config"
	tserrors "taskshell.dev/taskshell/internal/errors"
)

// PerCommand is the charge applied for every executed command
const PerCommand = 0.01

// TaskCost is the amount accrued by one task
type TaskCost struct {
	TaskID string
	Cost   float64
}

// Summary reports current spending
type Summary struct {
	Total     float64
	Limit     float64
	Remaining float64
	Tasks     []TaskCost // Highest cost first
}

// Tracker reads and updates cost totals in the settings file
type Tracker struct {
	home string
}

// NewTracker creates a tracker for the settings under home
func NewTracker(home string) *Tracker {
	return &Tracker{home: home}
}

// round keeps totals at cent precision so repeated charges do not drift
func round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Charge adds PerCommand to the total and to taskID. It fails without
// charging when the limit would be exceeded.
func (t *Tracker) Charge(taskID string) (float64, error) {
	var total float64
	_, err := config.Update(t.home, func(s *config.Settings) error {
		next := round(s.TotalCost + PerCommand)
		if next > s.CostLimit {
			return tserrors.NewCostLimitError(s.TotalCost, s.CostLimit)
		}
		s.TotalCost = next
		if taskID != "" {
			s.TaskCosts[taskID] = round(s.TaskCosts[taskID] + PerCommand)
		}
		total = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Refund takes back one PerCommand charge from the total and from taskID
func (t *Tracker) Refund(taskID string) error {
	_, err := config.Update(t.home, func(s *config.Settings) error {
		s.TotalCost = math.Max(0, round(s.TotalCost-PerCommand))
		if taskID == "" {
			return nil
		}
		if left := round(s.TaskCosts[taskID] - PerCommand); left > 0 {
			s.TaskCosts[taskID] = left
		} else {
			delete(s.TaskCosts, taskID)
		}
		return nil
	})
	return err
}

// Summary returns the current totals
func (t *Tracker) Summary() (*Summary, error) {
	s, err := config.Load(t.home)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:     s.TotalCost,
		Limit:     s.CostLimit,
		Remaining: math.Max(0, round(s.CostLimit-s.TotalCost)),
		Tasks:     make([]TaskCost, 0, len(s.TaskCosts)),
	}
	for id, c := range s.TaskCosts {
		summary.Tasks = append(summary.Tasks, TaskCost{TaskID: id, Cost: c})
	}
	sort.Slice(summary.Tasks, func(i, j int) bool {
		if summary.Tasks[i].Cost != summary.Tasks[j].Cost {
			return summary.Tasks[i].Cost > summary.Tasks[j].Cost
		}
		return summary.Tasks[i].TaskID < summary.Tasks[j].TaskID
	})
	return summary, nil
}

// SetLimit changes the spending limit
func (t *Tracker) SetLimit(limit float64) error {
	if limit <= 0 || math.IsNaN(limit) || math.IsInf(limit, 0) {
		return fmt.Errorf("cost limit must be a positive number, got %v", limit)
	}
	_, err := config.Update(t.home, func(s *config.Settings) error {
		s.CostLimit = limit
		return nil
	})
	return err
}

// Reset clears the total and per-task costs
func (t *Tracker) Reset() error {
	_, err := config.Update(t.home, func(s *config.Settings) error {
		s.TotalCost = 0
		s.TaskCosts = map[string]float64{}
		return nil
	})
	return err
}
