package dto

import "reviewhub/internal/api/models"

// GenreRefDTO names a genre inside a title write payload. Genres are
// resolved by slug and created on first sight.
type GenreRefDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// CreateTitleDTO is the write shape for titles. The genre set is
// mandatory and replaces any previous associations wholesale.
type CreateTitleDTO struct {
	Name        string        `json:"name" binding:"required"`
	Year        int           `json:"year" binding:"required"`
	Description *string       `json:"description"`
	Category    string        `json:"category" binding:"required,max=50"`
	Genre       []GenreRefDTO `json:"genre" binding:"required,min=1,dive"`
}

// UpdateTitleDTO is partial: nil fields stay untouched. A present genre
// field triggers full replacement of the association set; an empty set
// is rejected the same way it is on create.
type UpdateTitleDTO struct {
	Name        *string        `json:"name"`
	Year        *int           `json:"year"`
	Description *string        `json:"description"`
	Category    *string        `json:"category" binding:"omitempty,max=50"`
	Genre       *[]GenreRefDTO `json:"genre" binding:"omitempty,dive"`
}

// TitleResponse is the read shape: nested category and genres plus the
// rating computed from current reviews at read time.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description *string           `json:"description,omitempty"`
	Category    *SluggedResponse  `json:"category"`
	Genre       []SluggedResponse `json:"genre"`
	Rating      int               `json:"rating"`
}

func TitleFromModel(t *models.Title, rating int) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Rating:      rating,
		Genre:       make([]SluggedResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		category := CategoryFromModel(*t.Category)
		resp.Category = &category
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	return resp
}
