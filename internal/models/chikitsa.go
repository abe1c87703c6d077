package models

// ChikitsaResult is a validated health diagnosis with a treatment plan.
type ChikitsaResult struct {
	Diagnosis       string       `json:"diagnosis"`
	Severity        HealthStatus `json:"severity"`
	Confidence      float64      `json:"confidence"`
	Causes          []string     `json:"causes"`
	Treatment       Treatment    `json:"treatment"`
	Prevention      []string     `json:"prevention"`
	RecoveryTime    string       `json:"recovery_time"`
	WarningSigns    []string     `json:"warning_signs"`
	AyurvedicWisdom *string      `json:"ayurvedic_wisdom"`
}

type Treatment struct {
	Immediate []string `json:"immediate"`
	Ongoing   []string `json:"ongoing"`
	Products  []string `json:"products"`
}

// DiagnosisInput is the body of a Chikitsa request.
type DiagnosisInput struct {
	PlantName string  `json:"plant_name" validate:"required,max=255"`
	Symptoms  string  `json:"symptoms" validate:"required,max=2000"`
	ImageURL  *string `json:"image_url"`
	PlantID   *string `json:"plant_id"`
}
