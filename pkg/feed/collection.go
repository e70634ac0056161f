package feed

// Collection identifies one S3-backed feed of short videos. Keys under the
// prefix are the feed's item ids, in listing order.
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Bucket      string `json:"bucket"`
	Prefix      string `json:"prefix"`
	Loop        bool   `json:"loop,omitempty"`
}

// FindCollection looks up a builtin collection by id.
func FindCollection(id string) (Collection, bool) {
	for _, c := range BuiltinCollections() {
		if c.ID == id {
			return c, true
		}
	}
	return Collection{}, false
}

// BuiltinCollections returns the feeds the frame knows out of the box.
// Additional collections can be selected through the pairing portal.
func BuiltinCollections() []Collection {
	return []Collection{
		{
			ID:          "1",
			Title:       "Daily Mix",
			Description: "Fresh short clips, refreshed daily.",
			Bucket:      "feed-frame",
			Prefix:      "daily-mix",
			Loop:        true,
		},
		{
			ID:          "2",
			Title:       "Nature Loops",
			Description: "Slow scenery for quiet rooms.",
			Bucket:      "feed-frame",
			Prefix:      "nature-loops",
			Loop:        true,
		},
	}
}
