package models

// SevaSchedule is a validated care schedule.
type SevaSchedule struct {
	Watering     WateringInfo    `json:"watering"`
	Light        LightInfo       `json:"light"`
	Fertilizing  FertilizingInfo `json:"fertilizing"`
	Maintenance  MaintenanceInfo `json:"maintenance"`
	SeasonalTips []string        `json:"seasonal_tips"`
	VaidyaWisdom *string         `json:"vaidya_wisdom"`
}

type WateringInfo struct {
	FrequencyDays      int      `json:"frequency_days"`
	Amount             string   `json:"amount"`
	Method             string   `json:"method"`
	SeasonalAdjustment string   `json:"seasonal_adjustment"`
	SignsToWater       []string `json:"signs_to_water"`
}

type LightInfo struct {
	HoursPerDay  string `json:"hours_per_day"`
	Type         string `json:"type"`
	Placement    string `json:"placement"`
	SeasonalNote string `json:"seasonal_note"`
}

type FertilizingInfo struct {
	Frequency    string `json:"frequency"`
	Type         string `json:"type"`
	Dilution     string `json:"dilution"`
	SeasonalNote string `json:"seasonal_note"`
}

type MaintenanceInfo struct {
	Pruning   string `json:"pruning"`
	Repotting string `json:"repotting"`
	Cleaning  string `json:"cleaning"`
	PestCheck string `json:"pest_check"`
}

// CareScheduleInput is the body of a Seva request.
type CareScheduleInput struct {
	PlantName string `json:"plant_name" validate:"required,max=255"`
	Location  string `json:"location" validate:"max=255"`
	Season    string `json:"season" validate:"omitempty,oneof=Spring Summer Fall Autumn Winter Monsoon"`
	Indoor    *bool  `json:"indoor"`
}
