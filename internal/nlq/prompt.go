package nlq

import (
	"fmt"
	"strings"
)

// TranslationContext carries request-specific hints for the model.
type TranslationContext struct {
	// CurrentAOIName is the display name of the area the user is viewing.
	CurrentAOIName string
	// KnownAOINames lists every area the model may refer to.
	KnownAOINames []string
	// Today anchors relative dates, formatted YYYY-MM-DD. Optional.
	Today string
}

type promptEntity struct {
	entity      TargetEntity
	description string
	filters     fieldSet
	sortable    fieldSet
	dates       fieldSet
}

var promptEntities = []promptEntity{
	{EntityRiskEvent, "a scored pairing of a detected change with a nearby asset", riskEventQuery.filters, riskEventQuery.sortable, riskEventQuery.dates},
	{EntityChangePolygon, "an area where satellite imagery showed land-cover change", changePolygonQuery.filters, changePolygonQuery.sortable, changePolygonQuery.dates},
	{EntityAsset, "a piece of monitored infrastructure", assetQuery.filters, assetQuery.sortable, assetQuery.dates},
	{EntityProcessingRun, "one before/after imagery comparison", processingRunQuery.filters, processingRunQuery.sortable, processingRunQuery.dates},
}

const promptHeader = `You translate questions about satellite change detection and infrastructure risk into JSON query plans.

Respond with exactly one JSON object and nothing else. No prose, no markdown, no code fences.
The object has this shape:
{
  "interpretation": "one sentence restating what will be searched for",
  "plan": {
    "targetEntity": "RiskEvent | ChangePolygon | Asset | ProcessingRun",
    "filters": [{"property": "...", "operator": "eq|neq|gt|gte|lt|lte|in", "value": ...}],
    "spatialFilter": {"operation": "within_distance", "referenceEntityType": "Asset | ChangePolygon", "referenceFilters": [...], "distanceMeters": 500},
    "dateRange": {"property": "...", "from": "YYYY-MM-DD", "to": "YYYY-MM-DD"},
    "aoiId": "area name or id, only if the user names one",
    "orderBy": "...",
    "orderDescending": true,
    "limit": 50
  }
}
Omit keys you do not need. If the question cannot be answered from this data, set "plan" to null and explain why in "interpretation".
`

const promptRules = `Rules:
- Use only the properties listed above for the chosen entity. Property names are case-sensitive camelCase.
- Enum values must be one of the listed names. Use "in" with an array to match several.
- Ordered enums (riskLevel, criticality) rank Low < Medium < High < Critical and accept gt/gte/lt/lte.
- Text comparisons ignore case. Numbers are plain numbers without units.
- Risk levels by score: Low 0-24, Medium 25-49, High 50-74, Critical 75-100.
- "near", "close to" or "within N meters of" something means a spatialFilter with operation within_distance. Default distance is 500 meters.
- Dates use YYYY-MM-DD. Relative dates ("last month") are resolved against today's date.
- Default limit is 50 and the maximum is 200.

Examples:
Question: critical risks near hospitals
{"interpretation":"Critical risk events within 500 m of hospitals","plan":{"targetEntity":"RiskEvent","filters":[{"property":"riskLevel","operator":"eq","value":"Critical"}],"spatialFilter":{"operation":"within_distance","referenceEntityType":"Asset","referenceFilters":[{"property":"assetType","operator":"eq","value":"Hospital"}],"distanceMeters":500},"orderBy":"riskScore","orderDescending":true,"limit":50}}

Question: largest burn scars since June 2024
{"interpretation":"Fire burn scar changes detected since 2024-06-01, largest first","plan":{"targetEntity":"ChangePolygon","filters":[{"property":"changeType","operator":"eq","value":"FireBurnScar"}],"dateRange":{"property":"detectedAt","from":"2024-06-01"},"orderBy":"areaSqMeters","orderDescending":true,"limit":20}}
`

// BuildSystemPrompt renders the instruction block sent ahead of every
// question. Output depends only on tc and is stable across calls.
func BuildSystemPrompt(tc TranslationContext) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString("\nEntities:\n")
	for _, pe := range promptEntities {
		fmt.Fprintf(&sb, "\n%s: %s\n", pe.entity, pe.description)
		sb.WriteString("  filters:\n")
		for _, f := range pe.filters.ordered {
			if f.enum != nil {
				fmt.Fprintf(&sb, "    - %s (%s: %s)\n", f.name, f.kind, strings.Join(f.enum.Names(), ", "))
			} else {
				fmt.Fprintf(&sb, "    - %s (%s)\n", f.name, f.kind)
			}
		}
		fmt.Fprintf(&sb, "  orderBy: %s\n", strings.Join(pe.sortable.names(), ", "))
		fmt.Fprintf(&sb, "  dateRange properties: %s\n", strings.Join(pe.dates.names(), ", "))
	}
	sb.WriteString("\n")
	sb.WriteString(promptRules)

	if tc.Today != "" {
		fmt.Fprintf(&sb, "\nToday's date is %s.\n", tc.Today)
	}

	sb.WriteString("\nAreas of interest:\n")
	if len(tc.KnownAOINames) == 0 {
		sb.WriteString("  (none registered)\n")
	}
	for _, name := range tc.KnownAOINames {
		fmt.Fprintf(&sb, "  - %s\n", name)
	}
	if tc.CurrentAOIName != "" {
		fmt.Fprintf(&sb, "The user is currently viewing %q. Leave aoiId empty to search that area.\n", tc.CurrentAOIName)
	} else {
		sb.WriteString("No area is selected. Set aoiId only if the user names an area.\n")
	}
	return sb.String()
}
