package service

import (
	"context"

	"engsite/internal/models"
)

type ProjectService interface {
	GetProjects(ctx context.Context) models.Result[[]models.Project]
	GetProjectByID(ctx context.Context, projectID string) (models.Result[*models.Project], bool)
}

var portfolio = []models.Project{
	{
		ID:          "projeto-complexo-industrial",
		Title:       "Sustainable Industrial Complex",
		Category:    "Industrial Engineering",
		Description: "Design and delivery of an industrial complex focused on sustainability and energy efficiency, with a total area of 50,000 m².",
		LogoURL:     "/logo-placeholder-1.png",
		ImageURL:    "https://images.unsplash.com/photo-1581092916347-80eb3000b79d?auto=format&fit=crop&w=1170&q=80",
	},
	{
		ID:          "edificio-residencial-inovador",
		Title:       "Innovative Residential Building",
		Category:    "Civil Engineering",
		Description: "Structural design and construction management of a high-end residential building using modern construction technology.",
		LogoURL:     "/logo-placeholder-2.png",
		ImageURL:    "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?auto=format&fit=crop&w=1170&q=80",
	},
	{
		ID:          "ponte-estaiada-rio-grande",
		Title:       "Rio Grande Cable-Stayed Bridge",
		Category:    "Road Infrastructure",
		Description: "Technical consulting and engineering design for an 800 m cable-stayed bridge, optimising cost and schedule.",
		LogoURL:     "/logo-placeholder-3.png",
		ImageURL:    "https://images.unsplash.com/photo-1506790409743-de0554384508?auto=format&fit=crop&w=1170&q=80",
	},
	{
		ID:          "retrofit-centro-comercial",
		Title:       "Urban Shopping Centre Retrofit",
		Category:    "Civil Engineering",
		Description: "Structural modernisation and renewal of a shopping centre, improving accessibility and energy efficiency.",
		LogoURL:     "/logo-placeholder-1.png",
		ImageURL:    "https://images.unsplash.com/photo-1542856300-02b0466ef76d?auto=format&fit=crop&w=1170&q=80",
	},
}

type projectService struct {
	projects []models.Project
}

func NewProjectService() ProjectService {
	return &projectService{projects: portfolio}
}

func (s *projectService) GetProjects(context.Context) models.Result[[]models.Project] {
	projects := make([]models.Project, len(s.projects))
	copy(projects, s.projects)
	return models.OK("Project list loaded", projects)
}

func (s *projectService) GetProjectByID(_ context.Context, projectID string) (models.Result[*models.Project], bool) {
	for _, project := range s.projects {
		if project.ID == projectID {
			p := project
			return models.OK("Project loaded", &p), true
		}
	}
	return models.Fail[*models.Project]("Project not found"), false
}
