package domain

// SearchOptions narrows a project listing. Nil fields do not filter.
type SearchOptions struct {
	Status       *Status
	NameContains *string
}
