package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SchemaVersion - поколение схемы результата оценки.
type SchemaVersion string

const (
	// SchemaV1 - оценка по измерениям черт (архетип, измерения, бейджи).
	SchemaV1 SchemaVersion = "v1"
	// SchemaV3 - профиль персонажа (характеристики, сигналы, подбор).
	SchemaV3 SchemaVersion = "v3"
	// SchemaCommon - присутствуют только общие поля.
	SchemaCommon SchemaVersion = "common"
)

// ErrMissingField возвращается, если в результате оценки нет обязательного общего поля.
var ErrMissingField = errors.New("missing required field")

// AssessmentResult - результат оценки. Общие поля обязательны, группы полей
// V1 и V3 независимо опциональны. Объект не сохраняется локально.
type AssessmentResult struct {
	SessionID    string  `json:"sessionId"`
	UserID       string  `json:"userId"`
	OverallScore float64 `json:"overallScore"`

	TraitAssessment
	CharacterAssessment
}

// TraitAssessment - поля схемы V1.
type TraitAssessment struct {
	Archetype           *string             `json:"archetype,omitempty"`
	ArchetypeConfidence *float64            `json:"archetypeConfidence,omitempty"`
	Dimensions          map[string]float64  `json:"dimensions,omitempty"`
	Tier                *string             `json:"tier,omitempty"`
	PersonalityProfile  *PersonalityProfile `json:"personalityProfile,omitempty"`
	Badges              []string            `json:"badges,omitempty"`
	Summaries           map[string]string   `json:"summaries,omitempty"`
	CategoryScores      map[string]float64  `json:"categoryScores,omitempty"`
}

// PersonalityProfile - типологии личности в схеме V1.
type PersonalityProfile struct {
	MBTI      string   `json:"mbti,omitempty"`
	Enneagram string   `json:"enneagram,omitempty"`
	Traits    []string `json:"traits,omitempty"`
}

// CharacterAssessment - поля схемы V3.
type CharacterAssessment struct {
	CharacterProfile *CharacterProfile `json:"characterProfile,omitempty"`
	Attributes       *Attributes       `json:"attributes,omitempty"`
	Signals          *Signals          `json:"signals,omitempty"`
	Matching         *Matching         `json:"matching,omitempty"`
}

// CharacterProfile - описание персонажа в схеме V3.
type CharacterProfile struct {
	Name      string `json:"name,omitempty"`
	Race      string `json:"race,omitempty"`
	Class     string `json:"class,omitempty"`
	Alignment string `json:"alignment,omitempty"`
	Tagline   string `json:"tagline,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// Attributes - шесть именованных характеристик персонажа. Характеристика,
// которой нет в ответе, остаётся nil.
type Attributes struct {
	Strength     *float64 `json:"strength,omitempty"`
	Dexterity    *float64 `json:"dexterity,omitempty"`
	Constitution *float64 `json:"constitution,omitempty"`
	Intelligence *float64 `json:"intelligence,omitempty"`
	Wisdom       *float64 `json:"wisdom,omitempty"`
	Charisma     *float64 `json:"charisma,omitempty"`
}

var attributeAliases = map[string]string{
	"str": "strength", "dex": "dexterity", "con": "constitution",
	"int": "intelligence", "wis": "wisdom", "cha": "charisma",
}

// UnmarshalJSON принимает полные имена и трёхбуквенные сокращения в любом регистре.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		name := strings.ToLower(key)
		if full, ok := attributeAliases[name]; ok {
			name = full
		}
		switch name {
		case "strength":
			a.Strength = Ptr(value)
		case "dexterity":
			a.Dexterity = Ptr(value)
		case "constitution":
			a.Constitution = Ptr(value)
		case "intelligence":
			a.Intelligence = Ptr(value)
		case "wisdom":
			a.Wisdom = Ptr(value)
		case "charisma":
			a.Charisma = Ptr(value)
		}
	}
	return nil
}

// Signals - поведенческие сигналы в схеме V3.
type Signals struct {
	EnneagramHint     *string  `json:"enneagramHint,omitempty"`
	SocialEnergy      *string  `json:"socialEnergy,omitempty"`
	RelationshipStyle *string  `json:"relationshipStyle,omitempty"`
	InterestVectors   []string `json:"interestVectors,omitempty"`
}

// Matching - подсказки для подбора людей в схеме V3.
type Matching struct {
	IdealGroupSize  *string  `json:"idealGroupSize,omitempty"`
	ConnectionStyle *string  `json:"connectionStyle,omitempty"`
	GoodMatchWith   []string `json:"goodMatchWith,omitempty"`
	AvoidMatchWith  []string `json:"avoidMatchWith,omitempty"`
}

func (t TraitAssessment) present() bool {
	return t.Archetype != nil || t.ArchetypeConfidence != nil || t.Dimensions != nil || t.Tier != nil ||
		t.PersonalityProfile != nil || t.Badges != nil || t.Summaries != nil || t.CategoryScores != nil
}

func (c CharacterAssessment) present() bool {
	return c.CharacterProfile != nil || c.Attributes != nil || c.Signals != nil || c.Matching != nil
}

// SchemaVersion определяет поколение схемы по присутствующим группам полей.
// Если присутствуют обе группы, побеждает более новая V3.
func (r AssessmentResult) SchemaVersion() SchemaVersion {
	switch {
	case r.CharacterAssessment.present():
		return SchemaV3
	case r.TraitAssessment.present():
		return SchemaV1
	default:
		return SchemaCommon
	}
}

// ключи со свободными словарями: их содержимое не переименовывается
var freeFormKeys = map[string]bool{
	"dimensions":     true,
	"categoryScores": true,
	"summaries":      true,
	"attributes":     true,
}

var requiredResultKeys = []string{"sessionId", "userId", "overallScore"}

// UnmarshalJSON принимает ключи в camelCase и snake_case, проверяет наличие общих полей.
func (r *AssessmentResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return errors.New("assessment result: expected JSON object")
	}
	normalized := normalizeObject(obj)
	for _, key := range requiredResultKeys {
		if v, ok := normalized[key]; !ok || v == nil {
			return fmt.Errorf("assessment result: %w: %s", ErrMissingField, key)
		}
	}

	body, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	type plain AssessmentResult
	var out plain
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	*r = AssessmentResult(out)
	return nil
}

func normalizeObject(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	// сначала ключи, уже записанные в camelCase: они имеют приоритет
	for key, value := range obj {
		if !strings.Contains(key, "_") {
			out[key] = normalizeValue(key, value)
		}
	}
	for key, value := range obj {
		if !strings.Contains(key, "_") {
			continue
		}
		camel := snakeToCamel(key)
		if _, exists := out[camel]; exists {
			continue
		}
		out[camel] = normalizeValue(camel, value)
	}
	return out
}

func normalizeValue(key string, value any) any {
	if freeFormKeys[key] {
		return value
	}
	switch v := value.(type) {
	case map[string]any:
		return normalizeObject(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			if nested, ok := item.(map[string]any); ok {
				items[i] = normalizeObject(nested)
			} else {
				items[i] = item
			}
		}
		return items
	default:
		return value
	}
}

func snakeToCamel(key string) string {
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
