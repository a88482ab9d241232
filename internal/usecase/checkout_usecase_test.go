package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CoCustomerRepoMock struct{ mock.Mock }

func (m *CoCustomerRepoMock) EnsureByUserID(ctx context.Context, userID int64) (model.Customer, bool, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Bool(1), args.Error(2)
}

func (m *CoCustomerRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

type CoCartRepoMock struct{ mock.Mock }

func (m *CoCartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CoCartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CoCartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CoCartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CoCartItemRepoMock struct{ mock.Mock }

func (m *CoCartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CoCartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoCartItemRepoMock) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoCartItemRepoMock) UpdateQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoCartItemRepoMock) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	panic("not used in CheckoutUsecase tests")
}

type CoProductRepoMock struct{ mock.Mock }

func (m *CoProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoProductRepoMock) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CoProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoProductRepoMock) SoftDelete(ctx context.Context, productID int64) error {
	panic("not used in CheckoutUsecase tests")
}

type CoOrderRepoMock struct{ mock.Mock }

func (m *CoOrderRepoMock) CreateBulk(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	args := m.Called(ctx, orders)
	created, _ := args.Get(0).([]model.Order)
	return created, args.Error(1)
}

func (m *CoOrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error) {
	args := m.Called(ctx, customerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

// =====================
// Txスタブ
// =====================

type coTxRepos struct {
	customers *CoCustomerRepoMock
	carts     *CoCartRepoMock
	cartItems *CoCartItemRepoMock
	products  *CoProductRepoMock
	orders    *CoOrderRepoMock
}

func newCoTxRepos() *coTxRepos {
	return &coTxRepos{
		customers: new(CoCustomerRepoMock),
		carts:     new(CoCartRepoMock),
		cartItems: new(CoCartItemRepoMock),
		products:  new(CoProductRepoMock),
		orders:    new(CoOrderRepoMock),
	}
}

func (r *coTxRepos) Customers() repo.CustomerRepository { return r.customers }
func (r *coTxRepos) Carts() repo.CartRepository         { return r.carts }
func (r *coTxRepos) CartItems() repo.CartItemRepository { return r.cartItems }
func (r *coTxRepos) Products() repo.ProductRepository   { return r.products }
func (r *coTxRepos) Orders() repo.OrderRepository       { return r.orders }

// fnをそのまま実行するTransactionManager。
// fnがエラーならrollback相当（エラーをそのまま返す）。
type coTxManagerStub struct {
	repos *coTxRepos
}

func (m *coTxManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("order-%d", g.n)
}

// =====================
// PlaceOrder
// =====================

// 空カートでの確定は400で、注文行の作成もカートのクリアも起きない。
func TestCheckoutUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()

	r := newCoTxRepos()
	cart := model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}
	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(cart, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	uc := usecase.NewCheckoutUsecase(&coTxManagerStub{repos: r}, &seqIDGen{}, &fixedClock{t: time.Now()})

	_, err := uc.PlaceOrder(ctx, 1)
	assertHTTPStatus(t, err, 400)

	r.orders.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything)
	r.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	r.customers.AssertNotCalled(t, "EnsureByUserID", mock.Anything, mock.Anything)
}

// 明細2件 → 注文2行。価格は確定時点の商品価格で固定され、カートは空になる。
func TestCheckoutUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r := newCoTxRepos()
	cart := model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}
	items := []model.CartItem{
		{ID: 1, CartID: 10, ProductID: 1, Quantity: 2},
		{ID: 2, CartID: 10, ProductID: 2, Quantity: 1},
	}

	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(cart, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return(items, nil)
	r.customers.On("EnsureByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7, UserID: 1}, true, nil)
	r.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "A", Price: 1000, IsActive: true}, nil)
	r.products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{ID: 2, Name: "B", Price: 500, IsActive: true}, nil)

	var captured []model.Order
	r.orders.On("CreateBulk", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured, _ = args.Get(1).([]model.Order)
	}).Return([]model.Order{
		{ID: 100, OrderNumber: "order-1", CustomerID: 7, ProductID: 1, ProductNameSnapshot: "A", UnitPriceSnapshot: 1000, Quantity: 2, TotalPrice: 2000, OrderDate: now},
		{ID: 101, OrderNumber: "order-2", CustomerID: 7, ProductID: 2, ProductNameSnapshot: "B", UnitPriceSnapshot: 500, Quantity: 1, TotalPrice: 500, OrderDate: now},
	}, nil)
	r.carts.On("UpdateStatus", mock.Anything, int64(10), model.CartStatusCheckedOut).Return(nil)
	r.carts.On("Clear", mock.Anything, int64(10)).Return(nil)

	uc := usecase.NewCheckoutUsecase(&coTxManagerStub{repos: r}, &seqIDGen{}, &fixedClock{t: now})

	out, err := uc.PlaceOrder(ctx, 1)
	assert.NoError(t, err)

	//1明細＝1注文行
	assert.Equal(t, 2, len(out.Orders))
	assert.Equal(t, int64(2000), out.Orders[0].TotalPrice)
	assert.Equal(t, int64(500), out.Orders[1].TotalPrice)
	assert.Equal(t, int64(2500), out.Total)
	assert.True(t, out.FirstPurchase)

	//スナップショット内容の確認（確定時点の価格と時刻）
	assert.Equal(t, 2, len(captured))
	assert.Equal(t, int64(7), captured[0].CustomerID)
	assert.Equal(t, int64(1000), captured[0].UnitPriceSnapshot)
	assert.Equal(t, "A", captured[0].ProductNameSnapshot)
	assert.Equal(t, now, captured[0].OrderDate)
	assert.Equal(t, now, captured[1].OrderDate)

	r.carts.AssertCalled(t, "UpdateStatus", mock.Anything, int64(10), model.CartStatusCheckedOut)
	r.carts.AssertCalled(t, "Clear", mock.Anything, int64(10))
}

// 2回目の購入ではFirstPurchaseはfalse。
func TestCheckoutUsecase_PlaceOrder_RepeatPurchase(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	r := newCoTxRepos()
	cart := model.Cart{ID: 11, UserID: 1, Status: model.CartStatusActive}
	items := []model.CartItem{{ID: 3, CartID: 11, ProductID: 1, Quantity: 1}}

	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(cart, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(11)).Return(items, nil)
	r.customers.On("EnsureByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7, UserID: 1}, false, nil)
	r.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "A", Price: 1200, IsActive: true}, nil)
	r.orders.On("CreateBulk", mock.Anything, mock.Anything).Return([]model.Order{
		{ID: 102, CustomerID: 7, ProductID: 1, UnitPriceSnapshot: 1200, Quantity: 1, TotalPrice: 1200, OrderDate: now},
	}, nil)
	r.carts.On("UpdateStatus", mock.Anything, int64(11), model.CartStatusCheckedOut).Return(nil)
	r.carts.On("Clear", mock.Anything, int64(11)).Return(nil)

	uc := usecase.NewCheckoutUsecase(&coTxManagerStub{repos: r}, &seqIDGen{}, &fixedClock{t: now})

	out, err := uc.PlaceOrder(ctx, 1)
	assert.NoError(t, err)
	assert.False(t, out.FirstPurchase)
	//価格変更後の確定は新しい価格を使う
	assert.Equal(t, int64(1200), out.Orders[0].TotalPrice)
}

// 非公開になった商品が混ざっていたら400で、注文行は作られない。
func TestCheckoutUsecase_PlaceOrder_InactiveProduct(t *testing.T) {
	ctx := context.Background()

	r := newCoTxRepos()
	cart := model.Cart{ID: 10, UserID: 1, Status: model.CartStatusActive}
	items := []model.CartItem{{ID: 1, CartID: 10, ProductID: 1, Quantity: 2}}

	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(cart, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return(items, nil)
	r.customers.On("EnsureByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7, UserID: 1}, false, nil)
	r.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, IsActive: false}, nil)

	uc := usecase.NewCheckoutUsecase(&coTxManagerStub{repos: r}, &seqIDGen{}, &fixedClock{t: time.Now()})

	_, err := uc.PlaceOrder(ctx, 1)
	assertHTTPStatus(t, err, 400)

	r.orders.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything)
	r.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

// =====================
// ListOrderHistory
// =====================

// Customerがまだ無いユーザーは404。
func TestCheckoutUsecase_ListOrderHistory_NoCustomer(t *testing.T) {
	r := newCoTxRepos()
	r.customers.On("FindByUserID", mock.Anything, int64(1)).Return(model.Customer{}, repo.ErrNotFound)

	uc := usecase.NewCheckoutUsecase(&coTxManagerStub{repos: r}, &seqIDGen{}, &fixedClock{t: time.Now()})

	_, err := uc.ListOrderHistory(context.Background(), 1)
	assertHTTPStatus(t, err, 404)
}

// 履歴は自分のCustomerの注文だけを、リポジトリの降順のまま返す。
func TestCheckoutUsecase_ListOrderHistory_Success(t *testing.T) {
	r := newCoTxRepos()

	newer := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	r.customers.On("FindByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7, UserID: 1}, nil)
	r.orders.On("ListByCustomerID", mock.Anything, int64(7)).Return([]model.Order{
		{ID: 2, CustomerID: 7, ProductID: 1, TotalPrice: 500, OrderDate: newer},
		{ID: 1, CustomerID: 7, ProductID: 2, TotalPrice: 2000, OrderDate: older},
	}, nil)

	uc := usecase.NewCheckoutUsecase(&coTxManagerStub{repos: r}, &seqIDGen{}, &fixedClock{t: time.Now()})

	out, err := uc.ListOrderHistory(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out))
	assert.True(t, out[0].OrderDate.After(out[1].OrderDate))

	//customer_id=7 で問い合わせている（他人の注文は混ざらない）
	r.orders.AssertCalled(t, "ListByCustomerID", mock.Anything, int64(7))
}

// 履歴は注文行のスナップショットをそのまま返す。
// 商品テーブルは参照しないので、後から価格や商品名が変わっても
// （商品が消えても）確定済みの金額は変化しない。
func TestCheckoutUsecase_ListOrderHistory_ReturnsFrozenSnapshots(t *testing.T) {
	r := newCoTxRepos()

	r.customers.On("FindByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7, UserID: 1}, nil)
	r.orders.On("ListByCustomerID", mock.Anything, int64(7)).Return([]model.Order{
		{ID: 1, CustomerID: 7, ProductID: 1, ProductNameSnapshot: "A (旧名)", UnitPriceSnapshot: 1000, Quantity: 2, TotalPrice: 2000, OrderDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	uc := usecase.NewCheckoutUsecase(&coTxManagerStub{repos: r}, &seqIDGen{}, &fixedClock{t: time.Now()})

	out, err := uc.ListOrderHistory(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "A (旧名)", out[0].Name)
	assert.Equal(t, int64(1000), out[0].Price)
	assert.Equal(t, int64(2000), out[0].TotalPrice)

	//商品テーブルには一切触らない
	r.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
