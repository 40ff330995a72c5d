package models

import "strings"

// Category is the sport of an activity.
type Category string

const (
	CategoryUnknown  Category = "unknown"
	CategoryRunning  Category = "running"
	CategoryWalking  Category = "walking"
	CategoryHiking   Category = "hiking"
	CategoryCycling  Category = "cycling"
	CategoryMTB      Category = "mtb"
	CategorySkiing   Category = "skiing"
	CategorySwimming Category = "swimming"
	CategoryDriving  Category = "driving"
)

var categoryAliases = map[string]Category{
	"run":                  CategoryRunning,
	"running":              CategoryRunning,
	"trail running":        CategoryRunning,
	"jogging":              CategoryRunning,
	"walk":                 CategoryWalking,
	"walking":              CategoryWalking,
	"hike":                 CategoryHiking,
	"hiking":               CategoryHiking,
	"mountaineering":       CategoryHiking,
	"bike":                 CategoryCycling,
	"biking":               CategoryCycling,
	"cycling":              CategoryCycling,
	"road biking":          CategoryCycling,
	"mountain biking":      CategoryMTB,
	"mtb":                  CategoryMTB,
	"ski":                  CategorySkiing,
	"skiing":               CategorySkiing,
	"cross country skiing": CategorySkiing,
	"swim":                 CategorySwimming,
	"swimming":             CategorySwimming,
	"driving":              CategoryDriving,
	"car":                  CategoryDriving,
}

// ParseCategory maps free-form activity type names to a Category.
func ParseCategory(s string) Category {
	key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "_", " ")))
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return CategoryUnknown
}

// PaceOriented reports whether the sport is usually measured in pace rather
// than speed.
func (c Category) PaceOriented() bool {
	switch c {
	case CategoryRunning, CategoryWalking, CategoryHiking:
		return true
	}
	return false
}
