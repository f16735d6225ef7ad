package models

type RegisterRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	DisplayName   string `json:"displayName" validate:"required,min=2,max=80"`
	DiscordHandle string `json:"discordHandle" validate:"omitempty,max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateRoadmapRequest struct {
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description" validate:"max=2000"`
	Domain         string `json:"domain" validate:"max=100"`
	Difficulty     string `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	EstimatedHours int    `json:"estimatedHours" validate:"gte=0,lte=10000"`
	Content        string `json:"content" validate:"required"`
}

// UpdateRoadmapRequest is the body of the single roadmap action endpoint.
// Metadata fields are pointers so that "absent" and "empty" stay distinct.
type UpdateRoadmapRequest struct {
	Action            Action  `json:"action" validate:"required"`
	Feedback          string  `json:"feedback"`
	Title             *string `json:"title" validate:"omitempty,max=200"`
	Description       *string `json:"description" validate:"omitempty,max=2000"`
	Domain            *string `json:"domain" validate:"omitempty,max=100"`
	Difficulty        *string `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	EstimatedHours    *int    `json:"estimatedHours" validate:"omitempty,gte=0,lte=10000"`
	Content           string  `json:"content"`
	ChangeDescription string  `json:"changeDescription" validate:"max=500"`
}

func (r UpdateRoadmapRequest) Metadata() MetadataPatch {
	return MetadataPatch{
		Title:          r.Title,
		Description:    r.Description,
		Domain:         r.Domain,
		Difficulty:     r.Difficulty,
		EstimatedHours: r.EstimatedHours,
	}
}

type UpdateRoadmapResult struct {
	Message string `json:"message"`
	Version *int   `json:"version,omitempty"`
}

type ListRoadmapsParams struct {
	Status          string `form:"status"`
	HasPendingDraft *bool  `form:"hasPendingDraft"`
	Page            int    `form:"page,default=1"`
	Limit           int    `form:"limit,default=20"`
}

type PublicRoadmapParams struct {
	Domain     string `form:"domain"`
	Difficulty string `form:"difficulty"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
}
