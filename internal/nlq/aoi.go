package nlq

import (
	"context"
	"strings"

	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"gorm.io/gorm"
)

// AOIDirectory lists the registered areas of interest.
type AOIDirectory interface {
	ListAOIs(ctx context.Context) ([]georisk.AreaOfInterest, error)
}

type gormAOIDirectory struct {
	db *gorm.DB
}

// NewAOIDirectory reads areas of interest ordered by name.
func NewAOIDirectory(d *gorm.DB) AOIDirectory {
	return gormAOIDirectory{db: d}
}

func (g gormAOIDirectory) ListAOIs(ctx context.Context) ([]georisk.AreaOfInterest, error) {
	var aois []georisk.AreaOfInterest
	err := g.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&aois).Error
	return aois, err
}

// resolveAOI maps whatever the model put in aoiId onto a registered id.
// Precedence: exact id, then case-insensitive exact name, then the first
// case-insensitive substring match in either direction. Resolving a
// registered id returns it unchanged.
func resolveAOI(candidate string, aois []georisk.AreaOfInterest) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}

	for _, a := range aois {
		if a.ID == candidate {
			return a.ID, true
		}
	}

	folded := georisk.Fold(candidate)
	for _, a := range aois {
		if georisk.Fold(a.Name) == folded {
			return a.ID, true
		}
	}

	for _, a := range aois {
		name := georisk.Fold(a.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, folded) || strings.Contains(folded, name) {
			return a.ID, true
		}
	}
	return "", false
}

func aoiName(id string, aois []georisk.AreaOfInterest) string {
	for _, a := range aois {
		if a.ID == id {
			return a.Name
		}
	}
	return ""
}

func aoiNames(aois []georisk.AreaOfInterest) []string {
	names := make([]string, 0, len(aois))
	for _, a := range aois {
		names = append(names, a.Name)
	}
	return names
}
