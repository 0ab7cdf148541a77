package model

import "time"

// ScheduleInterval is one planned slot within a trading day. Charge and
// discharge are mutually exclusive in practice but both fields are always
// populated so a schedule can be replayed without re-deriving intent.
type ScheduleInterval struct {
	Index           int     `json:"interval"`
	ChargeMWh       float64 `json:"charge_mwh"`
	DischargeMWh    float64 `json:"discharge_mwh"`
	SOC             float64 `json:"soc"`
	EnergyCycledMWh float64 `json:"energy_cycled_mwh"`
}

// DailySchedule is the ordered plan for one day. Order is significant: it
// represents time and must be applied to the battery in index order.
type DailySchedule []ScheduleInterval

// TotalChargeMWh sums the planned charge energy across the day.
func (s DailySchedule) TotalChargeMWh() float64 {
	var total float64
	for _, iv := range s {
		total += iv.ChargeMWh
	}
	return total
}

// TotalDischargeMWh sums the planned discharge energy across the day.
func (s DailySchedule) TotalDischargeMWh() float64 {
	var total float64
	for _, iv := range s {
		total += iv.DischargeMWh
	}
	return total
}

// SimulationResult is the scored outcome of one simulated day.
type SimulationResult struct {
	Date     time.Time     `json:"current_date"`
	Schedule DailySchedule `json:"schedule"`
	DailyPnL float64       `json:"daily_pnl"`
}
