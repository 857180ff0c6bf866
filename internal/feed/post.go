package feed

import "time"

// Post is one entry in the feed. Content arrives already sanitized by
// the server; AssetRef is an opaque storage key that is not directly
// fetchable until resolved to a signed URL.
type Post struct {
	ID        string
	Title     string
	Category  string
	Content   string
	AssetRef  string
	AssetURL  string
	Author    Author
	CreatedAt time.Time
}

type Author struct {
	ID     string
	Name   string
	Avatar string
	Role   string
}

// Uncategorized is the category shown for posts without one.
const Uncategorized = "Uncategorized"

// Categories is the fixed set of post categories the platform offers.
var Categories = []string{
	"Career",
	"Finance",
	"Technology",
	"Travel",
	"Lifestyle",
	"Health",
	"Education",
	"Food & Drink",
	"Entertainment",
	"Sports",
	"Science",
	"Business",
	"Fashion",
	"Photography",
	"Art & Design",
	"Politics",
	"Environment",
	"Parenting",
	"DIY & Crafts",
	"Gaming",
	"Music",
}

// DisplayCategory normalizes an empty category for rendering.
func (p Post) DisplayCategory() string {
	if p.Category == "" {
		return Uncategorized
	}
	return p.Category
}
