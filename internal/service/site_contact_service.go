package service

import (
	"context"
	"fmt"
	"strings"

	"engsite/internal/models"
	"engsite/internal/repository"
	"engsite/internal/search"

	"github.com/google/uuid"
)

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

type SiteContactService interface {
	GetAllContacts(ctx context.Context, query string) (models.Result[[]models.SiteContact], error)
	CreateContact(ctx context.Context, input ContactInput) (models.Result[*models.SiteContact], error)
}

type siteContactService struct {
	contactRepo repository.SiteContactRepository
}

func NewSiteContactService(contactRepo repository.SiteContactRepository) SiteContactService {
	return &siteContactService{contactRepo: contactRepo}
}

func (s *siteContactService) GetAllContacts(ctx context.Context, query string) (models.Result[[]models.SiteContact], error) {
	contacts, err := s.contactRepo.List(ctx)
	if err != nil {
		return models.Fail[[]models.SiteContact]("Could not load contacts"), fmt.Errorf("error listing contacts: %w", err)
	}

	contacts = search.Filter(contacts, query, func(c models.SiteContact) []string { return []string{c.Name} })
	return models.OK("List loaded", contacts), nil
}

func (s *siteContactService) CreateContact(ctx context.Context, input ContactInput) (models.Result[*models.SiteContact], error) {
	now := models.Now()
	contact := &models.SiteContact{
		ID:        models.ID(uuid.New().String()),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Message:   input.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.contactRepo.Create(ctx, contact)
	if err != nil {
		return models.Fail[*models.SiteContact]("Could not send message"), fmt.Errorf("error creating contact: %w", err)
	}

	return models.OK("Contact registered successfully!", created), nil
}
