package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"vriksh/internal/apperrors"
	"vriksh/internal/models"

	"github.com/tidwall/gjson"
)

var (
	// ErrUpstreamParse means the model answered with something that is not JSON.
	ErrUpstreamParse = apperrors.New(apperrors.KindUpstreamFormat, "model output is not valid JSON")
	// ErrUpstreamFormat means the JSON is missing fields or has wrong types or ranges.
	ErrUpstreamFormat = apperrors.New(apperrors.KindUpstreamFormat, "model output does not match the expected shape")
)

// stripCodeFence removes a surrounding ```json ... ``` block if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// shapeCheck walks a parsed document and keeps the first violation.
type shapeCheck struct {
	root gjson.Result
	err  error
}

func (c *shapeCheck) fail(path, problem string) {
	if c.err == nil {
		c.err = fmt.Errorf("%w: %s %s", ErrUpstreamFormat, path, problem)
	}
}

func (c *shapeCheck) str(path string, nonEmpty bool) {
	v := c.root.Get(path)
	switch {
	case !v.Exists():
		c.fail(path, "is missing")
	case v.Type != gjson.String:
		c.fail(path, "is not a string")
	case nonEmpty && strings.TrimSpace(v.Str) == "":
		c.fail(path, "is empty")
	}
}

func (c *shapeCheck) nullableStr(path string) {
	v := c.root.Get(path)
	if v.Exists() && v.Type != gjson.Null && v.Type != gjson.String {
		c.fail(path, "is not a string or null")
	}
}

func (c *shapeCheck) unit(path string) {
	v := c.root.Get(path)
	switch {
	case !v.Exists():
		c.fail(path, "is missing")
	case v.Type != gjson.Number:
		c.fail(path, "is not a number")
	case v.Num < 0 || v.Num > 1:
		c.fail(path, "is outside [0,1]")
	}
}

func (c *shapeCheck) positiveInt(path string) {
	v := c.root.Get(path)
	switch {
	case !v.Exists():
		c.fail(path, "is missing")
	case v.Type != gjson.Number || v.Num != math.Trunc(v.Num):
		c.fail(path, "is not an integer")
	case v.Num < 1:
		c.fail(path, "is less than 1")
	}
}

func (c *shapeCheck) boolean(path string) {
	v := c.root.Get(path)
	if !v.Exists() || !v.IsBool() {
		c.fail(path, "is not a boolean")
	}
}

func (c *shapeCheck) enum(path string, allowed ...string) {
	c.str(path, true)
	v := c.root.Get(path).Str
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	c.fail(path, "has unexpected value "+fmt.Sprintf("%q", v))
}

func (c *shapeCheck) object(path string, stringFields ...string) {
	v := c.root.Get(path)
	if !v.Exists() || !v.IsObject() {
		c.fail(path, "is not an object")
		return
	}
	for _, f := range stringFields {
		c.str(path+"."+f, false)
	}
}

func (c *shapeCheck) stringList(path string, nonEmpty bool) {
	v := c.root.Get(path)
	if !v.Exists() || !v.IsArray() {
		c.fail(path, "is not an array")
		return
	}
	items := v.Array()
	if nonEmpty && len(items) == 0 {
		c.fail(path, "is empty")
		return
	}
	for _, item := range items {
		if item.Type != gjson.String {
			c.fail(path, "contains a non-string item")
			return
		}
	}
}

// gate strips fences, parses, runs the shape rules and only then decodes
// into out. Nothing partially validated ever reaches out.
func gate(raw string, out any, rules func(c *shapeCheck)) error {
	body := stripCodeFence(raw)
	if !gjson.Valid(body) {
		return ErrUpstreamParse
	}
	root := gjson.Parse(body)
	if !root.IsObject() {
		return fmt.Errorf("%w: top level is not an object", ErrUpstreamFormat)
	}

	if err := checkKeys(root, "$"); err != nil {
		return err
	}

	c := &shapeCheck{root: root}
	rules(c)
	if c.err != nil {
		return c.err
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamFormat, err)
	}
	return nil
}

// checkKeys rejects any object, at any depth, holding two keys that
// encoding/json would treat as the same field. The rules read the first
// exact match while Unmarshal takes the last case-insensitive one.
func checkKeys(v gjson.Result, path string) error {
	var err error
	switch {
	case v.IsObject():
		var seen []string
		v.ForEach(func(key, value gjson.Result) bool {
			for _, prev := range seen {
				if strings.EqualFold(prev, key.Str) {
					err = fmt.Errorf("%w: %s has ambiguous key %q", ErrUpstreamFormat, path, key.Str)
					return false
				}
			}
			seen = append(seen, key.Str)
			err = checkKeys(value, path+"."+key.Str)
			return err == nil
		})
	case v.IsArray():
		for i, item := range v.Array() {
			if err = checkKeys(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				break
			}
		}
	}
	return err
}

var healthStatuses = []string{string(models.HealthHealthy), string(models.HealthWarning), string(models.HealthCritical)}

// ParseIdentification validates and decodes a Darshan answer.
func ParseIdentification(raw string) (*models.DarshanResult, error) {
	var out models.DarshanResult
	err := gate(raw, &out, func(c *shapeCheck) {
		c.str("common_name", true)
		c.str("scientific_name", true)
		c.str("family", true)
		c.nullableStr("sanskrit_name")
		c.unit("confidence")
		c.enum("health_status", healthStatuses...)
		c.str("health_notes", false)

		c.object("description", "summary", "origin", "growth_habit")
		c.object("care_guide", "watering", "sunlight", "soil", "humidity", "temperature", "fertilizing", "difficulty")
		c.positiveInt("care_guide.watering_frequency_days")
		c.object("placement_guidance", "indoor", "outdoor", "vastu")
		c.object("cultural_significance")
		c.nullableStr("cultural_significance.ayurvedic_uses")
		c.nullableStr("cultural_significance.traditional_significance")
		c.object("warnings", "notes")
		c.boolean("warnings.toxic_to_pets")
		c.boolean("warnings.toxic_to_humans")

		c.stringList("cultural_significance.benefits", true)
		c.stringList("interesting_facts", true)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ParseDiagnosis validates and decodes a Chikitsa answer.
func ParseDiagnosis(raw string) (*models.ChikitsaResult, error) {
	var out models.ChikitsaResult
	err := gate(raw, &out, func(c *shapeCheck) {
		c.str("diagnosis", true)
		c.enum("severity", healthStatuses...)
		c.unit("confidence")
		c.str("recovery_time", true)
		c.nullableStr("ayurvedic_wisdom")

		c.object("treatment")
		c.stringList("causes", true)
		c.stringList("treatment.immediate", true)
		c.stringList("treatment.ongoing", true)
		c.stringList("treatment.products", false)
		c.stringList("prevention", true)
		c.stringList("warning_signs", true)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ParseCareSchedule validates and decodes a Seva answer.
func ParseCareSchedule(raw string) (*models.SevaSchedule, error) {
	var out models.SevaSchedule
	err := gate(raw, &out, func(c *shapeCheck) {
		c.object("watering", "amount", "method", "seasonal_adjustment")
		c.positiveInt("watering.frequency_days")
		c.object("light", "hours_per_day", "type", "placement", "seasonal_note")
		c.object("fertilizing", "frequency", "type", "dilution", "seasonal_note")
		c.object("maintenance", "pruning", "repotting", "cleaning", "pest_check")
		c.nullableStr("vaidya_wisdom")

		c.stringList("watering.signs_to_water", true)
		c.stringList("seasonal_tips", true)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
