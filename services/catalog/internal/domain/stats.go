package domain

// Stats is a point-in-time summary of the catalog contents.
type Stats struct {
	Products int
	Reviews  int
	ByRating map[Rating]int
}
