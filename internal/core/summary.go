package core

import "github.com/shopspring/decimal"

// TypeTotal is the amount due for one reminder type over a schedule.
type TypeTotal struct {
	Type   ReminderType    `json:"type"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// ScheduleSummary is a compact overview of what falls due in the next days.
type ScheduleSummary struct {
	From   Date        `json:"from"`
	To     Date        `json:"to"`
	ByType []TypeTotal `json:"by_type"`
}
