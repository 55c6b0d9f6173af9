package model

import "time"

// Superhero is the catalog entity.
type Superhero struct {
	ID                string    `json:"_id"`
	Nickname          string    `json:"nickname"`
	RealName          string    `json:"real_name"`
	OriginDescription string    `json:"origin_description"`
	Superpowers       []string  `json:"superpowers"`
	CatchPhrase       string    `json:"catch_phrase"`
	Images            []string  `json:"images"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Normalize replaces nil slices with empty ones so the API never emits null
// lists.
func (s *Superhero) Normalize() {
	if s.Superpowers == nil {
		s.Superpowers = []string{}
	}
	if s.Images == nil {
		s.Images = []string{}
	}
}

// Summary returns the list view projection of s.
func (s *Superhero) Summary() SuperheroSummary {
	summary := SuperheroSummary{ID: s.ID, Nickname: s.Nickname}
	if len(s.Images) > 0 {
		image := s.Images[0]
		summary.Image = &image
	}
	return summary
}

// SuperheroSummary is one row of the paginated list. Image is the first
// image URL, or null when the hero has none.
type SuperheroSummary struct {
	ID       string  `json:"id"`
	Nickname string  `json:"nickname"`
	Image    *string `json:"image"`
}

// SuperheroPatch carries a partial update. Nil fields are left unchanged.
type SuperheroPatch struct {
	Nickname          *string
	RealName          *string
	OriginDescription *string
	Superpowers       *[]string
	CatchPhrase       *string
	Images            *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p *SuperheroPatch) IsEmpty() bool {
	return p.Nickname == nil &&
		p.RealName == nil &&
		p.OriginDescription == nil &&
		p.Superpowers == nil &&
		p.CatchPhrase == nil &&
		p.Images == nil
}

// Apply copies the set fields of p onto s.
func (p *SuperheroPatch) Apply(s *Superhero) {
	if p.Nickname != nil {
		s.Nickname = *p.Nickname
	}
	if p.RealName != nil {
		s.RealName = *p.RealName
	}
	if p.OriginDescription != nil {
		s.OriginDescription = *p.OriginDescription
	}
	if p.Superpowers != nil {
		s.Superpowers = *p.Superpowers
	}
	if p.CatchPhrase != nil {
		s.CatchPhrase = *p.CatchPhrase
	}
	if p.Images != nil {
		s.Images = *p.Images
	}
}
