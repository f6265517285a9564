package test

import (
	"context"
	"io"
	"time"

	"engsite/internal/models"
	"engsite/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, creds models.Credentials) (models.Result[*models.Session], error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(models.Result[*models.Session]), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context) (models.Result[any], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Result[any]), args.Error(1)
}

func (m *MockAuthService) Session(ctx context.Context) (models.Result[*models.Session], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Result[*models.Session]), args.Error(1)
}

func (m *MockAuthService) Authorize(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) GetAllPosts(ctx context.Context, query string) (models.Result[[]models.Post], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(models.Result[[]models.Post]), args.Error(1)
}

func (m *MockPostService) GetPublishedPosts(ctx context.Context, query string) (models.Result[[]models.Post], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(models.Result[[]models.Post]), args.Error(1)
}

func (m *MockPostService) GetPostByID(ctx context.Context, postID string) (models.Result[*models.Post], error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(models.Result[*models.Post]), args.Error(1)
}

func (m *MockPostService) CreatePost(ctx context.Context, input service.PostInput) (models.Result[*models.Post], error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Result[*models.Post]), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, postID string, input service.PostInput) (models.Result[*models.Post], error) {
	args := m.Called(ctx, postID, input)
	return args.Get(0).(models.Result[*models.Post]), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, postID string) (models.Result[any], error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(models.Result[any]), args.Error(1)
}

func (m *MockPostService) UploadImage(ctx context.Context, postID, fileName string, file io.Reader, size int64) (models.Result[*models.Post], error) {
	data, _ := io.ReadAll(file)
	args := m.Called(ctx, postID, fileName, data, size)
	return args.Get(0).(models.Result[*models.Post]), args.Error(1)
}

type MockSubscriberService struct {
	mock.Mock
}

func (m *MockSubscriberService) Subscribe(ctx context.Context, email string) (models.Result[*models.Subscriber], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.Result[*models.Subscriber]), args.Error(1)
}

func (m *MockSubscriberService) GetAllSubscribers(ctx context.Context, query string) (models.Result[[]models.Subscriber], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(models.Result[[]models.Subscriber]), args.Error(1)
}

func (m *MockSubscriberService) DeleteSubscriber(ctx context.Context, email string) (models.Result[any], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.Result[any]), args.Error(1)
}

func (m *MockSubscriberService) ExportCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	if csv, ok := args.Get(0).(string); ok {
		io.WriteString(w, csv)
	}
	return args.Error(1)
}

type MockSiteContactService struct {
	mock.Mock
}

func (m *MockSiteContactService) GetAllContacts(ctx context.Context, query string) (models.Result[[]models.SiteContact], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(models.Result[[]models.SiteContact]), args.Error(1)
}

func (m *MockSiteContactService) CreateContact(ctx context.Context, input service.ContactInput) (models.Result[*models.SiteContact], error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Result[*models.SiteContact]), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetDashboardData(ctx context.Context) (models.Result[*models.Dashboard], error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Result[*models.Dashboard]), args.Error(1)
}

type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) SendPageView(ctx context.Context, view models.PageView) {
	m.Called(ctx, view)
}

func (m *MockLogService) Prune(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
