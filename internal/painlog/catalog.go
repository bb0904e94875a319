package painlog

// Region groups body parts into four broad areas used by dashboards
type Region string

const (
	RegionHead  Region = "head"
	RegionTorso Region = "torso"
	RegionArms  Region = "arms"
	RegionLegs  Region = "legs"
)

// bodyPartRegions is the fixed catalog of loggable locations. Tags are
// stored as-is; the region grouping is only used for display buckets.
var bodyPartRegions = map[string]Region{
	"head":      RegionHead,
	"face":      RegionHead,
	"jaw":       RegionHead,
	"neck":      RegionHead,
	"temple":    RegionHead,
	"eye":       RegionHead,
	"chest":     RegionTorso,
	"upper_back": RegionTorso,
	"lower_back": RegionTorso,
	"abdomen":   RegionTorso,
	"ribs":      RegionTorso,
	"hip":       RegionTorso,
	"pelvis":    RegionTorso,
	"shoulder":  RegionArms,
	"upper_arm": RegionArms,
	"elbow":     RegionArms,
	"forearm":   RegionArms,
	"wrist":     RegionArms,
	"hand":      RegionArms,
	"fingers":   RegionArms,
	"thumb":     RegionArms,
	"glutes":    RegionLegs,
	"thigh":     RegionLegs,
	"hamstring": RegionLegs,
	"knee":      RegionLegs,
	"shin":      RegionLegs,
	"calf":      RegionLegs,
	"ankle":     RegionLegs,
	"foot":      RegionLegs,
	"toes":      RegionLegs,
}

// KnownBodyPart reports whether tag is in the catalog
func KnownBodyPart(tag string) bool {
	_, ok := bodyPartRegions[tag]
	return ok
}

// RegionOf returns the region a body part belongs to
func RegionOf(tag string) (Region, bool) {
	region, ok := bodyPartRegions[tag]
	return region, ok
}

// BodyParts returns the catalog tags for a region
func BodyParts(region Region) []string {
	parts := make([]string, 0)
	for tag, r := range bodyPartRegions {
		if r == region {
			parts = append(parts, tag)
		}
	}
	return parts
}
