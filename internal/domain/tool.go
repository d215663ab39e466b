package domain

// Tool is a catalog entry: a tool name mapped to its default daily price.
// Consulted when a checkout omits an explicit price.
type Tool struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
