package georisk

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"gorm.io/gorm"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type AreaOfInterestOut struct {
	AreaOfInterest
	AssetCount int64 `json:"assetCount"`
}

// ListAreasOfInterest returns every monitored area ordered by name.
func ListAreasOfInterest(w http.ResponseWriter, r *http.Request) {
	var aois []AreaOfInterest
	if err := db.DB.WithContext(r.Context()).Order("name ASC").Find(&aois).Error; err != nil {
		log.Printf("[georisk] list areas of interest: %v", err)
		http.Error(w, "Failed to load areas of interest", http.StatusInternalServerError)
		return
	}
	writeJSON(w, aois)
}

func GetAreaOfInterest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	var aoi AreaOfInterest
	err := db.DB.WithContext(r.Context()).Where("id = ?", id).First(&aoi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Area of interest not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[georisk] get area of interest %s: %v", id, err)
		http.Error(w, "Failed to load area of interest", http.StatusInternalServerError)
		return
	}

	out := AreaOfInterestOut{AreaOfInterest: aoi}
	if err := db.DB.WithContext(r.Context()).Model(&Asset{}).Where("aoi_id = ?", id).Count(&out.AssetCount).Error; err != nil {
		log.Printf("[georisk] count assets for %s: %v", id, err)
	}
	writeJSON(w, out)
}
