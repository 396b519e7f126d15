package order

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/cache"
	"github.com/Additional-Code/rentcamp/internal/config"
	"github.com/Additional-Code/rentcamp/internal/entity"
	"github.com/Additional-Code/rentcamp/internal/messaging"
	repo "github.com/Additional-Code/rentcamp/internal/repository/order"
	"github.com/Additional-Code/rentcamp/internal/service/order/mocks"
	"github.com/Additional-Code/rentcamp/pkg/errorbank"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapStore() *mapStore { return &mapStore{data: map[string][]byte{}} }

func (m *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type published struct {
	key       string
	eventType string
}

type recordingPublisher struct {
	events []published
}

func (r *recordingPublisher) Publish(_ context.Context, key, _ []byte, headers map[string]string) error {
	r.events = append(r.events, published{key: string(key), eventType: headers[messaging.HeaderEventType]})
	return nil
}

func (r *recordingPublisher) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (r *recordingPublisher) Topic() string { return "test" }

func newTestService(t *testing.T) (*Service, *mocks.MockRepository, *mapStore, *recordingPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockRepository(ctrl)
	store := newMapStore()
	pub := &recordingPublisher{}

	cfg := config.Config{}
	cfg.Cache.KeyPrefix = "rentcamp"
	cfg.Cache.DefaultTTL = time.Minute
	cfg.Observability.ServiceName = "rentcamp-tracking"

	svc := NewService(Params{
		Repository: repository,
		Cache:      store,
		Keys:       cache.NewKeys(cfg),
		Config:     cfg,
		Logger:     zap.NewNop(),
		Publisher:  pub,
	})
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }
	return svc, repository, store, pub
}

func sampleOrder(status string) *entity.Order {
	return &entity.Order{
		ID:           "RC-20240115-ABC123DEF",
		Status:       status,
		PackageName:  "Paket Couple Camp",
		CustomerName: "Budi Santoso",
		TotalPrice:   750000,
	}
}

func TestGet_CachesRepositoryResult(t *testing.T) {
	svc, repository, store, _ := newTestService(t)
	ctx := context.Background()

	repository.EXPECT().GetByID(gomock.Any(), "RC-20240115-ABC123DEF").Return(sampleOrder("shipped"), nil).Times(1)

	first, err := svc.Get(ctx, "RC-20240115-ABC123DEF")
	require.NoError(t, err)
	assert.Equal(t, "shipped", first.Status)
	assert.Contains(t, store.data, "rentcamp:orders:RC-20240115-ABC123DEF")

	second, err := svc.Get(ctx, "RC-20240115-ABC123DEF")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGet_UnknownOrder(t *testing.T) {
	svc, repository, _, _ := newTestService(t)

	repository.EXPECT().GetByID(gomock.Any(), "RC-missing").Return(nil, repo.ErrNotFound)

	_, err := svc.Get(context.Background(), "RC-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindNotFound, appErr.Kind())
	assert.Equal(t, errorbank.CodeUnknownOrder, appErr.Code())
}

func TestGet_RepositoryFailure(t *testing.T) {
	svc, repository, _, _ := newTestService(t)

	repository.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := svc.Get(context.Background(), "RC-1")
	assert.Equal(t, errorbank.KindInternal, errorbank.From(err).Kind())
}

func TestPlace(t *testing.T) {
	svc, repository, _, pub := newTestService(t)

	repository.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o *entity.Order) error {
		assert.Equal(t, "payment_pending", o.Status)
		assert.Equal(t, "Budi Santoso", o.CustomerName)
		return nil
	})

	order, err := svc.Place(context.Background(), PlaceInput{
		PackageName:     "Paket Couple Camp",
		CustomerName:    " Budi Santoso ",
		Address:         "Jl. Merdeka No. 123, Jakarta",
		TotalPrice:      750000,
		RentalStartDate: time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
		RentalEndDate:   time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^RC-20240115-[0-9A-F]{9}$`), order.ID)
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventOrderPlaced, pub.events[0].eventType)
	assert.Equal(t, order.ID, pub.events[0].key)
}

func TestPlace_Validation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Place(context.Background(), PlaceInput{
		PackageName:     "Tenda",
		CustomerName:    "Siti",
		Address:         "Bandung",
		TotalPrice:      -1,
		RentalStartDate: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		RentalEndDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.Contains(t, appErr.Details(), "total_price")
	assert.Contains(t, appErr.Details(), "rental_period")
}

func TestUpdateStatus_Forward(t *testing.T) {
	svc, repository, store, pub := newTestService(t)
	store.data["rentcamp:orders:RC-20240115-ABC123DEF"] = []byte(`{"id":"RC-20240115-ABC123DEF","status":"being_prepared"}`)

	repository.EXPECT().GetByID(gomock.Any(), "RC-20240115-ABC123DEF").Return(sampleOrder("being_prepared"), nil)
	repository.EXPECT().UpdateStatus(gomock.Any(), "RC-20240115-ABC123DEF", "being_prepared", "shipped", gomock.Any()).Return(nil)

	order, err := svc.UpdateStatus(context.Background(), "RC-20240115-ABC123DEF", "shipped")
	require.NoError(t, err)
	assert.Equal(t, "shipped", order.Status)
	assert.NotContains(t, store.data, "rentcamp:orders:RC-20240115-ABC123DEF")
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventOrderStatusChanged, pub.events[0].eventType)
}

func TestUpdateStatus_Rejections(t *testing.T) {
	t.Run("backwards move", func(t *testing.T) {
		svc, repository, _, pub := newTestService(t)
		repository.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(sampleOrder("shipped"), nil)

		_, err := svc.UpdateStatus(context.Background(), "RC-20240115-ABC123DEF", "being_prepared")
		appErr := errorbank.From(err)
		assert.Equal(t, errorbank.KindConflict, appErr.Kind())
		assert.Equal(t, errorbank.CodeInvalidTransition, appErr.Code())
		assert.Empty(t, pub.events)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.UpdateStatus(context.Background(), "RC-20240115-ABC123DEF", "cancelled")
		appErr := errorbank.From(err)
		assert.Equal(t, errorbank.KindUnprocessableEntity, appErr.Kind())
		assert.Equal(t, errorbank.CodeInvalidStatus, appErr.Code())
	})

	t.Run("concurrent change", func(t *testing.T) {
		svc, repository, _, _ := newTestService(t)
		repository.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(sampleOrder("being_prepared"), nil)
		repository.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(repo.ErrStatusChanged)

		_, err := svc.UpdateStatus(context.Background(), "RC-20240115-ABC123DEF", "shipped")
		assert.Equal(t, errorbank.CodeInvalidTransition, errorbank.From(err).Code())
	})
}

func TestNewOrderID(t *testing.T) {
	at := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	a, b := NewOrderID(at), NewOrderID(at)
	assert.Regexp(t, `^RC-20240110-[0-9A-F]{9}$`, a)
	assert.NotEqual(t, a, b)
}
