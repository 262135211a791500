package route

// Visibility controls who can see a route on the map.
type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityPublic   Visibility = "public"
	VisibilityFeatured Visibility = "featured"
)

// IsValid returns true if the visibility tier is recognized.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityFeatured:
		return true
	}
	return false
}

// Source tags who or what created a route.
type Source string

const (
	SourceUser          Source = "user"
	SourceEditorial     Source = "editorial"
	SourceAIGenerated   Source = "ai_generated"
	SourceCorporate     Source = "corporate"
	SourceInstitutional Source = "institutional"
)

// IsValid returns true if the source tag is recognized.
func (s Source) IsValid() bool {
	switch s {
	case SourceUser, SourceEditorial, SourceAIGenerated, SourceCorporate, SourceInstitutional:
		return true
	}
	return false
}

// BasePriority returns the baseline relevance score for routes from this
// source. Featured routes get a higher baseline regardless of source.
func (s Source) BasePriority() int {
	switch s {
	case SourceCorporate:
		return 80
	case SourceEditorial:
		return 70
	case SourceInstitutional:
		return 60
	case SourceUser:
		return 50
	case SourceAIGenerated:
		return 30
	default:
		return 50
	}
}

// featuredBasePriority is the baseline for routes promoted to featured.
const featuredBasePriority = 100

// Difficulty grades the physical effort of a route.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// IsValid returns true if the difficulty level is recognized.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return true
	}
	return false
}
