package dto

import "reviewhub/internal/api/models"

// CreateSluggedDTO creates a category or a genre.
type CreateSluggedDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type SluggedResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(c models.Category) SluggedResponse {
	return SluggedResponse{Name: c.Name, Slug: c.Slug}
}

func GenreFromModel(g models.Genre) SluggedResponse {
	return SluggedResponse{Name: g.Name, Slug: g.Slug}
}
