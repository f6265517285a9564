package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"engsite/internal/models"
	"engsite/internal/repository"
	"engsite/internal/search"

	"github.com/google/uuid"
)

type SubscriberService interface {
	Subscribe(ctx context.Context, email string) (models.Result[*models.Subscriber], error)
	GetAllSubscribers(ctx context.Context, query string) (models.Result[[]models.Subscriber], error)
	DeleteSubscriber(ctx context.Context, email string) (models.Result[any], error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type subscriberService struct {
	subscriberRepo repository.SubscriberRepository
}

func NewSubscriberService(subscriberRepo repository.SubscriberRepository) SubscriberService {
	return &subscriberService{subscriberRepo: subscriberRepo}
}

func (s *subscriberService) Subscribe(ctx context.Context, email string) (models.Result[*models.Subscriber], error) {
	now := models.Now()
	subscriber := &models.Subscriber{
		ID:        models.ID(uuid.New().String()),
		Email:     strings.TrimSpace(email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.subscriberRepo.Create(ctx, subscriber)
	if err != nil {
		return models.Fail[*models.Subscriber]("Could not subscribe email"), fmt.Errorf("error creating subscriber: %w", err)
	}

	return models.OK("Email subscribed successfully.", created), nil
}

func (s *subscriberService) GetAllSubscribers(ctx context.Context, query string) (models.Result[[]models.Subscriber], error) {
	subscribers, err := s.subscriberRepo.List(ctx)
	if err != nil {
		return models.Fail[[]models.Subscriber]("Could not load subscribers"), fmt.Errorf("error listing subscribers: %w", err)
	}

	subscribers = search.Filter(subscribers, query, func(s models.Subscriber) []string { return []string{s.Email} })
	return models.OK("Subscriber list loaded.", subscribers), nil
}

func (s *subscriberService) DeleteSubscriber(ctx context.Context, email string) (models.Result[any], error) {
	if err := s.subscriberRepo.DeleteByEmail(ctx, strings.TrimSpace(email)); err != nil {
		return models.Fail[any]("Could not remove subscriber"), fmt.Errorf("error deleting subscriber: %w", err)
	}

	return models.OK[any]("Subscriber removed.", nil), nil
}

// ExportCSV writes one "email,date" row per subscriber after a header.
func (s *subscriberService) ExportCSV(ctx context.Context, w io.Writer) error {
	subscribers, err := s.subscriberRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing subscribers: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "date"}); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	for _, sub := range subscribers {
		date := ""
		if !sub.CreatedAt.IsZero() {
			date = sub.CreatedAt.UTC().Format(time.DateOnly)
		}
		if err := cw.Write([]string{sub.Email, date}); err != nil {
			return fmt.Errorf("error writing csv: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}
