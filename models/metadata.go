package models

// MetadataPatch carries optional roadmap metadata. A nil field means "leave
// the target untouched"; an empty string is a real value.
type MetadataPatch struct {
	Title          *string
	Description    *string
	Domain         *string
	Difficulty     *string
	EstimatedHours *int
}

// ApplyTo overwrites the roadmap fields present in the patch.
func (p MetadataPatch) ApplyTo(r *Roadmap) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Domain != nil {
		r.Domain = *p.Domain
	}
	if p.Difficulty != nil {
		r.Difficulty = *p.Difficulty
	}
	if p.EstimatedHours != nil {
		r.EstimatedHours = *p.EstimatedHours
	}
}
