package georisk

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Fold normalizes a name for case-insensitive comparison. A fresh Caser is
// created per call because Casers are not safe for concurrent use.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Enum maps the integer codes stored in the database to their display names.
type Enum[T ~int] struct {
	names  map[T]string
	byName map[string]T
	order  []T
}

func newEnum[T ~int](names map[T]string) Enum[T] {
	e := Enum[T]{names: names, byName: make(map[string]T, len(names))}
	for v, n := range names {
		e.byName[Fold(n)] = v
		e.order = append(e.order, v)
	}
	sort.Slice(e.order, func(i, j int) bool { return e.order[i] < e.order[j] })
	return e
}

// Name returns the display name of v, or "Unknown" for codes outside the set.
func (e Enum[T]) Name(v T) string {
	if n, ok := e.names[v]; ok {
		return n
	}
	return "Unknown"
}

// Parse resolves a name case-insensitively. Numeric codes are accepted too.
func (e Enum[T]) Parse(s string) (T, bool) {
	if v, ok := e.byName[Fold(s)]; ok {
		return v, true
	}
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if _, ok := e.names[T(code)]; ok {
		return T(code), true
	}
	return 0, false
}

// Lookup is Parse widened to int so callers need not know T.
func (e Enum[T]) Lookup(s string) (int, bool) {
	v, ok := e.Parse(s)
	return int(v), ok
}

// Names lists the display names ordered by code.
func (e Enum[T]) Names() []string {
	out := make([]string, 0, len(e.order))
	for _, v := range e.order {
		out = append(out, e.names[v])
	}
	return out
}

type AssetType int

const (
	AssetTransmissionLine    AssetType = 0
	AssetSubstation          AssetType = 1
	AssetGasPipeline         AssetType = 2
	AssetBuilding            AssetType = 3
	AssetRoad                AssetType = 4
	AssetFireStation         AssetType = 5
	AssetHospital            AssetType = 6
	AssetSchool              AssetType = 7
	AssetWaterInfrastructure AssetType = 8
	AssetOther               AssetType = 99
)

var AssetTypes = newEnum(map[AssetType]string{
	AssetTransmissionLine:    "TransmissionLine",
	AssetSubstation:          "Substation",
	AssetGasPipeline:         "GasPipeline",
	AssetBuilding:            "Building",
	AssetRoad:                "Road",
	AssetFireStation:         "FireStation",
	AssetHospital:            "Hospital",
	AssetSchool:              "School",
	AssetWaterInfrastructure: "WaterInfrastructure",
	AssetOther:               "Other",
})

func (t AssetType) String() string { return AssetTypes.Name(t) }

type Criticality int

const (
	CriticalityLow      Criticality = 0
	CriticalityMedium   Criticality = 1
	CriticalityHigh     Criticality = 2
	CriticalityCritical Criticality = 3
)

var Criticalities = newEnum(map[Criticality]string{
	CriticalityLow:      "Low",
	CriticalityMedium:   "Medium",
	CriticalityHigh:     "High",
	CriticalityCritical: "Critical",
})

func (c Criticality) String() string { return Criticalities.Name(c) }

type ChangeType int

const (
	ChangeUnknown            ChangeType = 0
	ChangeVegetationLoss     ChangeType = 1
	ChangeVegetationGain     ChangeType = 2
	ChangeUrbanExpansion     ChangeType = 3
	ChangeWaterChange        ChangeType = 4
	ChangeFireBurnScar       ChangeType = 5
	ChangeLandslideDebris    ChangeType = 6
	ChangeDroughtStress      ChangeType = 7
	ChangeAgriculturalChange ChangeType = 8
)

var ChangeTypes = newEnum(map[ChangeType]string{
	ChangeUnknown:            "Unknown",
	ChangeVegetationLoss:     "VegetationLoss",
	ChangeVegetationGain:     "VegetationGain",
	ChangeUrbanExpansion:     "UrbanExpansion",
	ChangeWaterChange:        "WaterChange",
	ChangeFireBurnScar:       "FireBurnScar",
	ChangeLandslideDebris:    "LandslideDebris",
	ChangeDroughtStress:      "DroughtStress",
	ChangeAgriculturalChange: "AgriculturalChange",
})

func (c ChangeType) String() string { return ChangeTypes.Name(c) }

type ProcessingStatus int

const (
	StatusPending          ProcessingStatus = 0
	StatusFetchingImagery  ProcessingStatus = 1
	StatusCalculatingNdvi  ProcessingStatus = 2
	StatusDetectingChanges ProcessingStatus = 3
	StatusScoringRisk      ProcessingStatus = 4
	StatusCompleted        ProcessingStatus = 5
	StatusFailed           ProcessingStatus = 6
)

var ProcessingStatuses = newEnum(map[ProcessingStatus]string{
	StatusPending:          "Pending",
	StatusFetchingImagery:  "FetchingImagery",
	StatusCalculatingNdvi:  "CalculatingNdvi",
	StatusDetectingChanges: "DetectingChanges",
	StatusScoringRisk:      "ScoringRisk",
	StatusCompleted:        "Completed",
	StatusFailed:           "Failed",
})

func (s ProcessingStatus) String() string { return ProcessingStatuses.Name(s) }

type RiskLevel int

const (
	RiskLow      RiskLevel = 0
	RiskMedium   RiskLevel = 1
	RiskHigh     RiskLevel = 2
	RiskCritical RiskLevel = 3
)

var RiskLevels = newEnum(map[RiskLevel]string{
	RiskLow:      "Low",
	RiskMedium:   "Medium",
	RiskHigh:     "High",
	RiskCritical: "Critical",
})

func (l RiskLevel) String() string { return RiskLevels.Name(l) }

// RiskLevelForScore buckets a 0-100 score: 0-24 Low, 25-49 Medium,
// 50-74 High, 75 and above Critical.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 75:
		return RiskCritical
	case score >= 50:
		return RiskHigh
	case score >= 25:
		return RiskMedium
	default:
		return RiskLow
	}
}
