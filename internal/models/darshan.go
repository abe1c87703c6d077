package models

// DarshanResult is a validated plant identification.
type DarshanResult struct {
	CommonName           string               `json:"common_name"`
	ScientificName       string               `json:"scientific_name"`
	SanskritName         *string              `json:"sanskrit_name"`
	Family               string               `json:"family"`
	Confidence           float64              `json:"confidence"`
	HealthStatus         HealthStatus         `json:"health_status"`
	HealthNotes          string               `json:"health_notes"`
	Description          PlantDescription     `json:"description"`
	CareGuide            CareGuide            `json:"care_guide"`
	PlacementGuidance    PlacementGuidance    `json:"placement_guidance"`
	CulturalSignificance CulturalSignificance `json:"cultural_significance"`
	InterestingFacts     []string             `json:"interesting_facts"`
	Warnings             PlantWarnings        `json:"warnings"`
}

type PlantDescription struct {
	Summary     string `json:"summary"`
	Origin      string `json:"origin"`
	GrowthHabit string `json:"growth_habit"`
}

type CareGuide struct {
	Watering              string `json:"watering"`
	WateringFrequencyDays int    `json:"watering_frequency_days"`
	Sunlight              string `json:"sunlight"`
	Soil                  string `json:"soil"`
	Humidity              string `json:"humidity"`
	Temperature           string `json:"temperature"`
	Fertilizing           string `json:"fertilizing"`
	Difficulty            string `json:"difficulty"`
}

type PlacementGuidance struct {
	Indoor  string `json:"indoor"`
	Outdoor string `json:"outdoor"`
	Vastu   string `json:"vastu"`
}

type CulturalSignificance struct {
	AyurvedicUses           *string  `json:"ayurvedic_uses"`
	TraditionalSignificance *string  `json:"traditional_significance"`
	Benefits                []string `json:"benefits"`
}

type PlantWarnings struct {
	ToxicToPets   bool   `json:"toxic_to_pets"`
	ToxicToHumans bool   `json:"toxic_to_humans"`
	Notes         string `json:"notes"`
}
