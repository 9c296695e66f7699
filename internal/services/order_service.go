package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const itemFetchConcurrency = 8

// OrderService assembles order history views. Totals are recomputed from the
// current product prices on every read.
type OrderService struct {
	ledger repository.OrderLedger
	users  repository.UserDirectory
}

func NewOrderService(ledger repository.OrderLedger, users repository.UserDirectory) *OrderService {
	return &OrderService{ledger: ledger, users: users}
}

// OrdersWithDetails returns the user's orders, newest first.
func (u *OrderService) OrdersWithDetails(ctx context.Context, userID string) ([]domain.OrderDetail, error) {
	orders, err := u.ledger.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.assemble(ctx, orders)
}

// OrderDetail returns one order if it belongs to userID.
func (u *OrderService) OrderDetail(ctx context.Context, userID, orderID string) (*domain.OrderDetail, error) {
	o, err := u.ledger.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	details, err := u.assemble(ctx, []domain.Order{*o})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (u *OrderService) AdminOrders(ctx context.Context) (*domain.AdminOrderReport, error) {
	orders, err := u.ledger.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	details, err := u.assemble(ctx, orders)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(orders))
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.UserID]; !ok {
			seen[o.UserID] = struct{}{}
			ids = append(ids, o.UserID)
		}
	}
	users, err := u.users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := &domain.AdminOrderReport{
		Orders:     make([]domain.AdminOrderDetail, 0, len(details)),
		GrandTotal: decimal.Zero,
	}
	for _, d := range details {
		user, ok := users[d.Order.UserID]
		if !ok {
			user = domain.User{ID: d.Order.UserID, Name: domain.UnknownUserName}
		}
		report.Orders = append(report.Orders, domain.AdminOrderDetail{
			OrderDetail: d,
			UserName:    user.Name,
			UserEmail:   user.Email,
		})
		report.GrandTotal = report.GrandTotal.Add(d.Total)
	}
	return report, nil
}

func (u *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	return u.ledger.DeleteOrder(ctx, orderID)
}

func (u *OrderService) assemble(ctx context.Context, orders []domain.Order) ([]domain.OrderDetail, error) {
	items := make([][]domain.OrderItem, len(orders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(itemFetchConcurrency)
	for i := range orders {
		g.Go(func() error {
			its, err := u.ledger.ItemsByOrder(gctx, orders[i].ID)
			if err != nil {
				return err
			}
			items[i] = its
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// deleted products are simply absent from the map
	products := make(map[uint64]domain.Product)
	looked := make(map[uint64]struct{})
	for _, its := range items {
		for _, it := range its {
			if _, ok := looked[it.ProductID]; ok {
				continue
			}
			looked[it.ProductID] = struct{}{}
			p, err := u.ledger.ProductByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if p != nil {
				products[p.ID] = *p
			}
		}
	}

	out := make([]domain.OrderDetail, 0, len(orders))
	for i, o := range orders {
		out = append(out, domain.NewOrderDetail(o, items[i], products))
	}
	return out, nil
}
