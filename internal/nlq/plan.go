package nlq

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
)

const (
	// MaxResults caps the page size of any executed plan.
	MaxResults = 200
	// DefaultLimit applies when the model does not set a limit.
	DefaultLimit = 50
)

// TargetEntity names the record type a plan queries.
type TargetEntity string

const (
	EntityRiskEvent     TargetEntity = "RiskEvent"
	EntityChangePolygon TargetEntity = "ChangePolygon"
	EntityAsset         TargetEntity = "Asset"
	EntityProcessingRun TargetEntity = "ProcessingRun"
)

var knownEntities = []TargetEntity{EntityRiskEvent, EntityChangePolygon, EntityAsset, EntityProcessingRun}

// Canonical resolves loose spellings ("risk_events", "assets") to a known
// entity. ok is false when nothing matches.
func (e TargetEntity) Canonical() (TargetEntity, bool) {
	key := georisk.Fold(strings.NewReplacer("_", "", " ", "", "-", "").Replace(string(e)))
	key = strings.TrimSuffix(key, "s")
	for _, known := range knownEntities {
		if georisk.Fold(string(known)) == key {
			return known, true
		}
	}
	return e, false
}

// Operator is a comparison in an attribute filter.
type Operator string

const (
	OpEq  Operator = "eq"
	OpNeq Operator = "neq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var operatorAliases = map[string]Operator{
	"eq": OpEq, "=": OpEq, "==": OpEq, "equals": OpEq,
	"neq": OpNeq, "ne": OpNeq, "!=": OpNeq, "<>": OpNeq,
	"gt": OpGt, ">": OpGt,
	"gte": OpGte, "ge": OpGte, ">=": OpGte,
	"lt": OpLt, "<": OpLt,
	"lte": OpLte, "le": OpLte, "<=": OpLte,
	"in": OpIn,
}

// Normalize maps symbol and casing variants onto the canonical operators.
func (o Operator) Normalize() (Operator, bool) {
	op, ok := operatorAliases[strings.ToLower(strings.TrimSpace(string(o)))]
	return op, ok
}

type AttributeFilter struct {
	Property string      `json:"property"`
	Operator Operator    `json:"operator"`
	Value    FilterValue `json:"value"`
}

type SpatialOperation string

const (
	SpatialWithinDistance SpatialOperation = "within_distance"
	SpatialIntersects     SpatialOperation = "intersects"
)

type SpatialFilter struct {
	Operation           SpatialOperation  `json:"operation"`
	ReferenceEntityType TargetEntity      `json:"referenceEntityType"`
	ReferenceFilters    []AttributeFilter `json:"referenceFilters,omitempty"`
	DistanceMeters      LenientFloat      `json:"distanceMeters,omitempty"`
}

// DateRange bounds a date property. Bounds are kept as text and parsed when
// the plan runs; an unparseable bound is ignored.
type DateRange struct {
	Property string `json:"property,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

// QueryPlan is the structured query the model produces.
type QueryPlan struct {
	TargetEntity    TargetEntity      `json:"targetEntity"`
	Filters         []AttributeFilter `json:"filters,omitempty"`
	SpatialFilter   *SpatialFilter    `json:"spatialFilter,omitempty"`
	DateRange       *DateRange        `json:"dateRange,omitempty"`
	AOIID           string            `json:"aoiId,omitempty"`
	OrderBy         string            `json:"orderBy,omitempty"`
	OrderDescending LenientBool       `json:"orderDescending"`
	Limit           LenientInt        `json:"limit"`
}

// UnmarshalJSON decodes over a plan preset with DefaultLimit, so an absent
// or null limit keeps the default.
func (p *QueryPlan) UnmarshalJSON(data []byte) error {
	type plain QueryPlan
	out := plain{Limit: DefaultLimit}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = QueryPlan(out)
	return nil
}

// EffectiveLimit is Limit clamped to [1, MaxResults].
func (p *QueryPlan) EffectiveLimit() int {
	n := int(p.Limit)
	if n < 1 {
		return 1
	}
	if n > MaxResults {
		return MaxResults
	}
	return n
}

// FilterValue is the canonical text form of a filter operand. The model may
// send a string, number, boolean or array; arrays are joined with commas.
type FilterValue string

func (v *FilterValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FilterValue(canonicalText(raw))
	return nil
}

func canonicalText(raw any) string {
	switch x := raw.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := canonicalText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		// Objects carry no usable operand.
		return ""
	}
}

// Items splits a comma-separated value into trimmed, non-empty parts.
func (v FilterValue) Items() []string {
	var out []string
	for _, part := range strings.Split(string(v), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LenientBool accepts true/false, their string forms and numbers.
type LenientBool bool

func (b *LenientBool) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case bool:
		*b = LenientBool(x)
	case string:
		v, _ := parseBoolText(x)
		*b = LenientBool(v)
	case json.Number:
		f, err := x.Float64()
		*b = LenientBool(err == nil && f != 0)
	case nil:
	default:
		*b = false
	}
	return nil
}

func parseBoolText(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "y", "on":
		return true, true
	case "false", "f", "0", "no", "n", "off":
		return false, true
	}
	return false, false
}

// LenientInt accepts a JSON number or numeric string. Fractions truncate and
// values beyond the int32 range saturate.
type LenientInt int

func (n *LenientInt) UnmarshalJSON(data []byte) error {
	f, ok, err := lenientNumber(data)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	switch {
	case math.IsNaN(f):
		return nil
	case f >= math.MaxInt32:
		*n = math.MaxInt32
	case f <= math.MinInt32:
		*n = math.MinInt32
	default:
		*n = LenientInt(int(f))
	}
	return nil
}

// LenientFloat accepts a JSON number or numeric string.
type LenientFloat float64

func (n *LenientFloat) UnmarshalJSON(data []byte) error {
	f, ok, err := lenientNumber(data)
	if err != nil {
		return err
	}
	if ok {
		*n = LenientFloat(f)
	}
	return nil
}

// lenientNumber reports ok=false for null and for strings that are not
// numbers, leaving the destination untouched.
func lenientNumber(data []byte) (float64, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return 0, false, err
	}
	switch x := raw.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil, nil
	}
	return 0, false, nil
}
