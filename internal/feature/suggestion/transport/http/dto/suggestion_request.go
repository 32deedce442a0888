// Package dto defines data transfer objects for the suggestion feature's HTTP transport layer.
package dto

// CreateSuggestionReq represents the request body for POST /suggestions.
type CreateSuggestionReq struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

// UpdateSuggestionReq represents the request body for PUT /suggestions/:id.
// Omitted fields keep their stored value.
type UpdateSuggestionReq struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Status *string `json:"status"`
}

// ListSuggestionsQuery holds the query string of GET /suggestions.
type ListSuggestionsQuery struct {
	Skip   int    `form:"skip" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0"`
	Status string `form:"status"`
}
