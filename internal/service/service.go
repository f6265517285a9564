package service

import (
	"engsite/internal/config"
	"engsite/internal/render"
	"engsite/internal/repository"
	"engsite/internal/storage"

	"github.com/sirupsen/logrus"
)

type Service struct {
	Post        PostService
	Subscriber  SubscriberService
	SiteContact SiteContactService
	Auth        AuthService
	Dashboard   DashboardService
	Log         LogService
	Project     ProjectService
}

// NewService wires the services over rep. images may be nil.
func NewService(rep *repository.Repository, authenticator Authenticator, kv storage.KeyValue, images storage.ImageStorage, cfg *config.Config, log logrus.FieldLogger) *Service {
	return &Service{
		Post:        NewPostService(rep.Posts, images, render.New(), log),
		Subscriber:  NewSubscriberService(rep.Subscribers),
		SiteContact: NewSiteContactService(rep.SiteContacts),
		Auth:        NewAuthService(authenticator, kv, cfg, log),
		Dashboard:   NewDashboardService(rep.Dashboard),
		Log:         NewLogService(rep.PageLogs, cfg.PageLog.RetentionDays, log),
		Project:     NewProjectService(),
	}
}
