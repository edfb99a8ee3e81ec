package trial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/internal/app/service/account"
	"github.com/qybrrlabs/portal/internal/app/service/session"
	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
	"github.com/qybrrlabs/portal/pkg/logctx"
	"github.com/qybrrlabs/portal/pkg/types"
)

// TrialDays is the trial window, added as calendar days so the end date
// tracks wall-clock day boundaries rather than elapsed seconds.
const TrialDays = 30

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrTrialAlreadyActive = errors.New("trial already active for this product")
)

// Service manages the per-product trial state machine, scoped to the current
// user: NotClaimed -> Trialing, one-way. Trial status is informational once
// set; nothing here expires or upgrades it.
type Service struct {
	cfg   *cfgpkg.Config
	acc   account.DocumentAccessor
	notif *session.Notifier
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewService(cfg *cfgpkg.Config, acc account.DocumentAccessor, notif *session.Notifier, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, acc: acc, notif: notif, log: log, now: time.Now}
}

// IsTrialActive reports whether doc holds any subscription for productID,
// regardless of status.
func IsTrialActive(doc *types.MetadataDocument, productID string) bool {
	if doc == nil {
		return false
	}
	return lo.SomeBy(doc.Subscriptions, func(sub types.Subscription) bool {
		return sub.ProductID == productID
	})
}

// ClaimTrial appends a trialing subscription and its notification to the
// user's document in a single write and returns the provider's echoed user.
//
// The duplicate check runs against the caller's snapshot; two sessions
// claiming concurrently still race, because the document carries no version
// token and the later full-array write wins. That matches the provider's
// merge model and is accepted here.
func (s *Service) ClaimTrial(ctx context.Context, accessToken string, user *types.User, productID string) (*types.User, error) {
	if user == nil {
		return nil, session.ErrUnauthenticated
	}

	product := s.cfg.GetProductByID(productID)
	if product == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	doc := user.Document
	if doc == nil {
		doc = &types.MetadataDocument{}
	}
	if IsTrialActive(doc, product.ID) {
		return nil, fmt.Errorf("%w: %s", ErrTrialAlreadyActive, product.ID)
	}

	now := s.now()
	trialEndsAt := now.AddDate(0, 0, TrialDays)

	subscriptions := append(append([]types.Subscription{}, doc.Subscriptions...), types.Subscription{
		ProductID:   product.ID,
		Name:        product.Name,
		Status:      types.SubscriptionStatusTrialing,
		TrialEndsAt: &trialEndsAt,
	})
	notifications := append(append([]types.Notification{}, doc.Notifications...), types.Notification{
		ID:        fmt.Sprintf("trial-%s-%d", product.ID, now.UnixMilli()),
		Type:      types.NotificationTypeInfo,
		Message:   fmt.Sprintf("Your %d-day trial for %s has started.", TrialDays, product.Name),
		Read:      false,
		CreatedAt: now,
	})

	updated, err := s.acc.Write(ctx, accessToken, map[string]interface{}{
		"subscriptions": subscriptions,
		"notifications": notifications,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim trial: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("trial claimed", "user_id", user.ID, "product_id", product.ID, "trial_ends_at", trialEndsAt)
	s.notif.UserUpdated(updated)
	return updated, nil
}

// SignupDocument seeds a new user's metadata document: a trialing
// subscription for every catalog product plus a single welcome notification.
func (s *Service) SignupDocument(username string) map[string]interface{} {
	now := s.now()
	trialEndsAt := now.AddDate(0, 0, TrialDays)

	subscriptions := lo.Map(s.cfg.Products, func(p *types.Product, _ int) types.Subscription {
		return types.Subscription{
			ProductID:   p.ID,
			Name:        p.Name,
			Status:      types.SubscriptionStatusTrialing,
			TrialEndsAt: &trialEndsAt,
		}
	})
	notifications := []types.Notification{{
		ID:        fmt.Sprintf("trial-%d", now.UnixMilli()),
		Type:      types.NotificationTypeInfo,
		Message:   fmt.Sprintf("Welcome! Your %d-day free trial for all products has started.", TrialDays),
		Read:      false,
		CreatedAt: now,
	}}

	return map[string]interface{}{
		"username":      username,
		"subscriptions": subscriptions,
		"notifications": notifications,
	}
}

// ProductView is a catalog entry annotated with the caller's trial state.
type ProductView struct {
	*types.Product
	TrialActive bool `json:"trialActive"`
}

// Products returns the catalog, annotated against doc (nil for anonymous
// callers: nothing is active).
func (s *Service) Products(doc *types.MetadataDocument) []ProductView {
	return lo.Map(s.cfg.Products, func(p *types.Product, _ int) ProductView {
		return ProductView{Product: p, TrialActive: IsTrialActive(doc, p.ID)}
	})
}

// SubscriptionView pairs a stored subscription with its catalog product, if
// the product still exists. Display fields resolve from the catalog.
type SubscriptionView struct {
	types.Subscription
	Product *types.Product `json:"product,omitempty"`
}

// Subscriptions returns the user's stored subscriptions in insertion order.
func (s *Service) Subscriptions(user *types.User) []SubscriptionView {
	if user == nil || user.Document == nil {
		return nil
	}
	return lo.Map(user.Document.Subscriptions, func(sub types.Subscription, _ int) SubscriptionView {
		return SubscriptionView{Subscription: sub, Product: s.cfg.GetProductByID(sub.ProductID)}
	})
}
