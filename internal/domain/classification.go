package domain

// Category is one of the closed set of destinations a classified video
// can be filed under. Each category maps to exactly one destination
// folder on the platform.
type Category string

const (
	CategoryWorshipServices   Category = "worship_services"
	CategoryWeddingsMemorials Category = "weddings_memorials"
	CategoryScottsClasses     Category = "scotts_classes"
	CategoryRootClass         Category = "root_class"
)

// DisplayName returns the folder-facing name for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryWorshipServices:
		return "Worship Services"
	case CategoryWeddingsMemorials:
		return "Weddings and Memorials"
	case CategoryScottsClasses:
		return "Scott's Classes"
	case CategoryRootClass:
		return "The Root Class"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWorshipServices, CategoryWeddingsMemorials, CategoryScottsClasses, CategoryRootClass:
		return true
	}
	return false
}

// ClassificationResult is the full outcome of classifying a video:
// either both fields are set, or the video stays unclassified. There is
// no partial result.
type ClassificationResult struct {
	// Category is the destination category
	Category Category

	// CanonicalTitle is the deterministic, date-prefixed title the
	// video should carry
	CanonicalTitle string

	// ServiceDate is the date the event actually occurred on
	// (YYYY-MM-DD), which may differ from the timestamp's calendar day
	// for services that finish processing after midnight
	ServiceDate string
}
