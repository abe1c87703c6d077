package services

import "fmt"

const jsonOnly = "Answer with a single JSON object and nothing else. Do not wrap it in markdown."

const darshanSystemPrompt = `You are Vriksh, a botanist who also knows Ayurveda and Indian plant lore.
Identify plants from photographs accurately. Prefer an honest lower confidence
over a confident wrong answer. Only give a Sanskrit name or Ayurvedic use when
one genuinely exists; otherwise use null. ` + jsonOnly

const darshanUserPrompt = `Identify the plant in this image. Return JSON with exactly these fields:
{
  "common_name": string,
  "scientific_name": string,
  "sanskrit_name": string or null,
  "family": string,
  "confidence": number between 0 and 1,
  "health_status": "healthy" | "warning" | "critical",
  "health_notes": string,
  "description": {"summary": string, "origin": string, "growth_habit": string},
  "care_guide": {"watering": string, "watering_frequency_days": integer >= 1,
                 "sunlight": string, "soil": string, "humidity": string,
                 "temperature": string, "fertilizing": string, "difficulty": string},
  "placement_guidance": {"indoor": string, "outdoor": string, "vastu": string},
  "cultural_significance": {"ayurvedic_uses": string or null,
                            "traditional_significance": string or null,
                            "benefits": [string, at least one]},
  "interesting_facts": [string, at least one],
  "warnings": {"toxic_to_pets": boolean, "toxic_to_humans": boolean, "notes": string}
}`

const chikitsaSystemPrompt = `You are Vriksh Vaidya, a plant pathologist. Diagnose plant health
problems from described symptoms and, when given, a photo. Be specific and
actionable. Rate severity honestly. ` + jsonOnly

const chikitsaUserPrompt = `Plant: %s
Symptoms: %s

Return JSON with exactly these fields:
{
  "diagnosis": string,
  "severity": "healthy" | "warning" | "critical",
  "confidence": number between 0 and 1,
  "causes": [string, at least one],
  "treatment": {"immediate": [string, at least one], "ongoing": [string, at least one], "products": [string]},
  "prevention": [string, at least one],
  "recovery_time": string,
  "warning_signs": [string, at least one],
  "ayurvedic_wisdom": string or null
}`

const sevaSystemPrompt = `You are Vriksh Mali, an experienced gardener. Build practical care
schedules adjusted to the plant's location, season and setting. ` + jsonOnly

const sevaUserPrompt = `Plant: %s
Location: %s
Season: %s
Setting: %s

Return JSON with exactly these fields:
{
  "watering": {"frequency_days": integer >= 1, "amount": string, "method": string,
               "seasonal_adjustment": string, "signs_to_water": [string, at least one]},
  "light": {"hours_per_day": string, "type": string, "placement": string, "seasonal_note": string},
  "fertilizing": {"frequency": string, "type": string, "dilution": string, "seasonal_note": string},
  "maintenance": {"pruning": string, "repotting": string, "cleaning": string, "pest_check": string},
  "seasonal_tips": [string, at least one],
  "vaidya_wisdom": string or null
}`

func chikitsaPrompt(plantName, symptoms string) string {
	return fmt.Sprintf(chikitsaUserPrompt, plantName, symptoms)
}

func sevaPrompt(plantName, location, season string, indoor bool) string {
	setting := "outdoor"
	if indoor {
		setting = "indoor"
	}
	return fmt.Sprintf(sevaUserPrompt, plantName, location, season, setting)
}
