package gallery

import "time"

// MediaKind is recorded when the object is written.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// Item is one media asset attached to a monument. StorageKey references the
// object exclusively owned by this item.
type Item struct {
	ID          string    `json:"id" bson:"_id"`
	MonumentID  string    `json:"monumentId" bson:"monumentId"`
	Title       string    `json:"title" bson:"title"`
	StorageKey  string    `json:"storageKey" bson:"storageKey"`
	MediaKind   MediaKind `json:"mediaKind" bson:"mediaKind"`
	ContentType string    `json:"contentType" bson:"contentType"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// View is an Item with a freshly signed access URL.
type View struct {
	*Item
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
