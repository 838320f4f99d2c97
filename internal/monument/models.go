package monument

import "time"

// Monument describes one historical site. Location is free text and only
// trusted after ParseLocation accepts it.
type Monument struct {
	ID                      string    `json:"id" bson:"_id"`
	Title                   string    `json:"title" bson:"title" validate:"required"`
	ShortDescription        string    `json:"shortDescription" bson:"shortDescription" validate:"required"`
	LongDescription         string    `json:"longDescription" bson:"longDescription" validate:"required"`
	Place                   string    `json:"place" bson:"place" validate:"required"`
	State                   string    `json:"state" bson:"state" validate:"required"`
	Importance              string    `json:"importance,omitempty" bson:"importance,omitempty"`
	PastCondition           string    `json:"pastCondition,omitempty" bson:"pastCondition,omitempty"`
	PresentCondition        string    `json:"presentCondition,omitempty" bson:"presentCondition,omitempty"`
	ArchitecturalImportance string    `json:"architecturalImportance,omitempty" bson:"architecturalImportance,omitempty"`
	Location                string    `json:"location" bson:"location"`
	Verified                bool      `json:"verified" bson:"verified"`
	UserID                  string    `json:"userId" bson:"userId"`
	CoverKey                string    `json:"coverKey,omitempty" bson:"coverKey,omitempty"`
	CreatedAt               time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Title                   *string `json:"title"`
	ShortDescription        *string `json:"shortDescription"`
	LongDescription         *string `json:"longDescription"`
	Place                   *string `json:"place"`
	State                   *string `json:"state"`
	Importance              *string `json:"importance"`
	PastCondition           *string `json:"pastCondition"`
	PresentCondition        *string `json:"presentCondition"`
	ArchitecturalImportance *string `json:"architecturalImportance"`
	Location                *string `json:"location"`
}

// Apply merges the non-nil fields of p into m.
func (p *Patch) Apply(m *Monument) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&m.Title, p.Title)
	set(&m.ShortDescription, p.ShortDescription)
	set(&m.LongDescription, p.LongDescription)
	set(&m.Place, p.Place)
	set(&m.State, p.State)
	set(&m.Importance, p.Importance)
	set(&m.PastCondition, p.PastCondition)
	set(&m.PresentCondition, p.PresentCondition)
	set(&m.ArchitecturalImportance, p.ArchitecturalImportance)
	set(&m.Location, p.Location)
}
