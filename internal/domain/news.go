package domain

import "time"

// NewsArticle is one search hit. Nil fields were null at the provider.
// The source name is serialized as "name", which is what the map client reads.
type NewsArticle struct {
	SourceName  *string    `json:"name"`
	Author      *string    `json:"author"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	URL         string     `json:"url"`
	PublishDate *time.Time `json:"publishDate"`
}

// NewsResult keeps the provider's ordering of articles.
type NewsResult struct {
	TotalResults int           `json:"totalResults"`
	Articles     []NewsArticle `json:"articles"`
}
