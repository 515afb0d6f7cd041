package georisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForScore(t *testing.T) {
	tests := map[int]RiskLevel{
		0: RiskLow, 24: RiskLow,
		25: RiskMedium, 49: RiskMedium,
		50: RiskHigh, 74: RiskHigh,
		75: RiskCritical, 100: RiskCritical,
	}
	for score, want := range tests {
		assert.Equal(t, want, RiskLevelForScore(score), "score %d", score)
	}
}

func TestEnum_Parse(t *testing.T) {
	v, ok := AssetTypes.Parse("fireSTATION")
	assert.True(t, ok)
	assert.Equal(t, AssetFireStation, v)

	v, ok = AssetTypes.Parse(" 99 ")
	assert.True(t, ok)
	assert.Equal(t, AssetOther, v)

	_, ok = AssetTypes.Parse("42")
	assert.False(t, ok)
	_, ok = AssetTypes.Parse("Volcano")
	assert.False(t, ok)
}

func TestEnum_NamesAndStrings(t *testing.T) {
	assert.Equal(t, []string{"Low", "Medium", "High", "Critical"}, RiskLevels.Names())
	assert.Equal(t, "Other", AssetTypes.Names()[len(AssetTypes.Names())-1])
	assert.Equal(t, "FireBurnScar", ChangeFireBurnScar.String())
	assert.Equal(t, "Unknown", ChangeType(77).String())
	assert.Equal(t, "Completed", StatusCompleted.String())
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("  Sonoma County "), Fold("SONOMA COUNTY"))
}
