package nlq

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryPlan_LenientDecoding(t *testing.T) {
	raw := `{
		"targetEntity": "RiskEvent",
		"filters": [
			{"property": "riskScore", "operator": ">=", "value": 75},
			{"property": "riskLevel", "operator": "in", "value": ["High", "Critical"]},
			{"property": "isAcknowledged", "operator": "eq", "value": false},
			{"property": "assetName", "operator": "eq", "value": null}
		],
		"spatialFilter": {"operation": "within_distance", "referenceEntityType": "Asset", "distanceMeters": "250.5"},
		"orderDescending": "true",
		"limit": "20"
	}`

	var p QueryPlan
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, EntityRiskEvent, p.TargetEntity)
	require.Len(t, p.Filters, 4)
	assert.Equal(t, FilterValue("75"), p.Filters[0].Value)
	assert.Equal(t, FilterValue("High,Critical"), p.Filters[1].Value)
	assert.Equal(t, FilterValue("false"), p.Filters[2].Value)
	assert.Equal(t, FilterValue(""), p.Filters[3].Value)
	require.NotNil(t, p.SpatialFilter)
	assert.Equal(t, LenientFloat(250.5), p.SpatialFilter.DistanceMeters)
	assert.True(t, bool(p.OrderDescending))
	assert.Equal(t, 20, p.EffectiveLimit())
}

func TestQueryPlan_DefaultLimit(t *testing.T) {
	for _, raw := range []string{
		`{"targetEntity": "Asset"}`,
		`{"targetEntity": "Asset", "limit": null}`,
		`{"targetEntity": "Asset", "limit": "lots"}`,
	} {
		var p QueryPlan
		require.NoError(t, json.Unmarshal([]byte(raw), &p), raw)
		assert.Equal(t, DefaultLimit, p.EffectiveLimit(), raw)
	}
}

func TestQueryPlan_EffectiveLimitClamps(t *testing.T) {
	tests := []struct {
		limit LenientInt
		want  int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{200, 200},
		{5000, MaxResults},
	}
	for _, tc := range tests {
		p := QueryPlan{Limit: tc.limit}
		assert.Equal(t, tc.want, p.EffectiveLimit(), "limit %d", tc.limit)
	}
}

func TestQueryPlan_HugeLimitsClampToMax(t *testing.T) {
	for _, raw := range []string{
		`{"targetEntity": "Asset", "limit": 1e20}`,
		`{"targetEntity": "Asset", "limit": "1e9"}`,
		`{"targetEntity": "Asset", "limit": 9223372036854775808}`,
	} {
		var p QueryPlan
		require.NoError(t, json.Unmarshal([]byte(raw), &p), raw)
		assert.Equal(t, MaxResults, p.EffectiveLimit(), raw)
	}

	var p QueryPlan
	require.NoError(t, json.Unmarshal([]byte(`{"targetEntity": "Asset", "limit": -1e20}`), &p))
	assert.Equal(t, 1, p.EffectiveLimit())
}

func TestLenientBool(t *testing.T) {
	tests := map[string]bool{
		`true`:    true,
		`false`:   false,
		`"yes"`:   true,
		`"FALSE"`: false,
		`1`:       true,
		`0`:       false,
		`null`:    false,
		`"maybe"`: false,
	}
	for raw, want := range tests {
		var b LenientBool
		require.NoError(t, json.Unmarshal([]byte(raw), &b), raw)
		assert.Equal(t, want, bool(b), raw)
	}
}

func TestLenientInt_TruncatesFractions(t *testing.T) {
	var n LenientInt
	require.NoError(t, json.Unmarshal([]byte(`12.9`), &n))
	assert.Equal(t, LenientInt(12), n)
}

func TestFilterValue_Items(t *testing.T) {
	assert.Equal(t, []string{"High", "Critical"}, FilterValue(" High , ,Critical ").Items())
	assert.Nil(t, FilterValue("").Items())
}

func TestTargetEntity_Canonical(t *testing.T) {
	tests := map[TargetEntity]TargetEntity{
		"RiskEvent":       EntityRiskEvent,
		"risk_events":     EntityRiskEvent,
		"change polygons": EntityChangePolygon,
		"ASSETS":          EntityAsset,
		"processing-run":  EntityProcessingRun,
	}
	for in, want := range tests {
		got, ok := in.Canonical()
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := TargetEntity("Weather").Canonical()
	assert.False(t, ok)
}

func TestOperator_Normalize(t *testing.T) {
	tests := map[Operator]Operator{
		"eq": OpEq, "=": OpEq, "NEQ": OpNeq, "!=": OpNeq,
		">": OpGt, ">=": OpGte, " lt ": OpLt, "<=": OpLte, "IN": OpIn,
	}
	for in, want := range tests {
		got, ok := in.Normalize()
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := Operator("like").Normalize()
	assert.False(t, ok)
}
