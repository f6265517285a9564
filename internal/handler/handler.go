package handlers

import (
	"net/http"

	"engsite/internal/config"
	"engsite/internal/metrics"
	"engsite/internal/models"
	"engsite/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	PostService        service.PostService
	SubscriberService  service.SubscriberService
	SiteContactService service.SiteContactService
	AuthService        service.AuthService
	DashboardService   service.DashboardService
	LogService         service.LogService
	ProjectService     service.ProjectService
	Metrics            *metrics.Metrics
	Cfg                *config.Config
	Log                logrus.FieldLogger
	Validate           *validator.Validate
}

func NewHandlers(service *service.Service, m *metrics.Metrics, config *config.Config, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		PostService:        service.Post,
		SubscriberService:  service.Subscriber,
		SiteContactService: service.SiteContact,
		AuthService:        service.Auth,
		DashboardService:   service.Dashboard,
		LogService:         service.Log,
		ProjectService:     service.Project,
		Metrics:            m,
		Cfg:                config,
		Log:                log,
		Validate:           validator.New(),
	}
}

type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, models.OK("ok", HealthResponse{Status: "ok", Mode: h.Cfg.Mode()}), http.StatusOK)
}
