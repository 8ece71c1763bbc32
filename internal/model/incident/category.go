package incident

import "strings"

// Category enumerates the canonical incident categories accepted by the
// city backend.
type Category string

const (
	CategoryRoadMaintenance Category = "road_maintenance"
	CategoryWasteManagement Category = "waste_management"
	CategoryWaterSupply     Category = "water_supply"
	CategoryElectricity     Category = "electricity"
	CategoryStreetLighting  Category = "street_lighting"
	CategoryDrainage        Category = "drainage"
	CategoryOther           Category = "other"
)

var categories = []Category{
	CategoryRoadMaintenance,
	CategoryWasteManagement,
	CategoryWaterSupply,
	CategoryElectricity,
	CategoryStreetLighting,
	CategoryDrainage,
	CategoryOther,
}

// Categories returns every valid category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches free-text input against the category set, ignoring
// case and surrounding whitespace. The returned value carries canonical
// casing.
func ParseCategory(raw string) (Category, bool) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range categories {
		if string(c) == needle {
			return c, true
		}
	}
	return "", false
}

// CategoryList renders the category set for prompts and warnings.
func CategoryList() string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
