package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printshop/internal/client"
	"printshop/internal/model"
)

type mockProductRepo struct {
	products []*model.Product
}

func (m *mockProductRepo) Seed(context.Context) error { return nil }

func (m *mockProductRepo) FindByID(_ context.Context, productID uint) (*model.Product, error) {
	for _, p := range m.products {
		if p.ID == productID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) FindBySlug(_ context.Context, slug string) (*model.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) List(context.Context) ([]*model.Product, error) {
	return m.products, nil
}

func (m *mockProductRepo) ListRelated(_ context.Context, excludeID uint, limit int) ([]*model.Product, error) {
	var out []*model.Product
	for _, p := range m.products {
		if p.ID == excludeID {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type mockVariantRepo struct {
	variants []*model.PrintVariant
}

func (m *mockVariantRepo) Seed(context.Context) error { return nil }

func (m *mockVariantRepo) FindByID(_ context.Context, variantID uint) (*model.PrintVariant, error) {
	for _, v := range m.variants {
		if v.ID == variantID {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVariantRepo) List(context.Context) ([]*model.PrintVariant, error) {
	return m.variants, nil
}

type shippingUpdate struct {
	sessionID string
	fee       int64
	label     string
}

type mockStripeClient struct {
	createInput *client.CreateSessionInput
	createInfo  *client.CheckoutSessionInfo
	createErr   error

	updates   []shippingUpdate
	updateErr error

	getCalls int
	getInfo  *client.CheckoutSessionInfo
	getErr   error

	verifyEvt *client.WebhookEvent
	verifyErr error
}

func (m *mockStripeClient) CreateCheckoutSession(_ context.Context, in *client.CreateSessionInput) (*client.CheckoutSessionInfo, error) {
	m.createInput = in
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createInfo, nil
}

func (m *mockStripeClient) UpdateShippingOption(_ context.Context, sessionID string, fee int64, label string) error {
	m.updates = append(m.updates, shippingUpdate{sessionID: sessionID, fee: fee, label: label})
	return m.updateErr
}

func (m *mockStripeClient) GetCheckoutSession(_ context.Context, sessionID string) (*client.CheckoutSessionInfo, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getInfo, nil
}

func (m *mockStripeClient) VerifyWebhookEvent([]byte, string) (*client.WebhookEvent, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.verifyEvt, nil
}

type mockWebhookEventRepo struct {
	exists    bool
	existsErr error
	processed []string
}

func (m *mockWebhookEventRepo) Exists(_ context.Context, eventID string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockWebhookEventRepo) MarkProcessed(_ context.Context, eventID, eventType string) error {
	m.processed = append(m.processed, eventID)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Order{},
		&model.OrderItem{},
		&model.WebhookEvent{},
	))
	return db
}
