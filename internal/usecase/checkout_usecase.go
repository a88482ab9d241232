package usecase

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// CheckoutUsecase はカート→注文の確定と注文履歴を担当します。
// 確定処理は1トランザクションで、全注文行の作成とカートのクリアが
// まとめてcommitされるか、まとめてrollbackされるかのどちらかです。
type CheckoutUsecase struct {
	tx    repo.TransactionManager
	idGen IDGenerator
	clock Clock
}

func NewCheckoutUsecase(tx repo.TransactionManager, idGen IDGenerator, clock Clock) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, idGen: idGen, clock: clock}
}

type OrderOutput struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"order_number"`
	ProductID   int64     `json:"product_id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Quantity    int64     `json:"quantity"`
	TotalPrice  int64     `json:"total_price"`
	OrderDate   time.Time `json:"order_date"`
}

type PlaceOrderOutput struct {
	Orders        []OrderOutput `json:"orders"`
	Total         int64         `json:"total"`
	FirstPurchase bool          `json:"first_purchase"`
}

// PlaceOrder は注文確定。
// カート1明細につき注文1行を作成し、価格は確定時点の商品価格で固定する。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out PlaceOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//ACTIVEカートを行ロック付きで取得（同一カートの同時確定はここで直列化）
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//Customerが無ければここで遅延作成（初回購入）
		customer, created, err := r.Customers().EnsureByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//1明細＝1注文行。価格は確定時点の商品価格で固定
		now := u.clock.Now()
		orders := make([]model.Order, 0, len(cartItems))
		var total int64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "product unavailable")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "product unavailable")
			}

			lineTotal := p.Price * ci.Quantity
			orders = append(orders, model.Order{
				OrderNumber:         u.idGen.NewID(),
				CustomerID:          customer.ID,
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            ci.Quantity,
				TotalPrice:          lineTotal,
				OrderDate:           now,
			})
			total += lineTotal
		}

		//注文行を一括作成
		createdOrders, err := r.Orders().CreateBulk(ctx, orders)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートをCHECKED_OUTにして明細をクリア（次の追加で新しいカートが作られる）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs := make([]OrderOutput, 0, len(createdOrders))
		for _, o := range createdOrders {
			outs = append(outs, toOrderOutput(o))
		}
		out = PlaceOrderOutput{
			Orders:        outs,
			Total:         total,
			FirstPurchase: created,
		}
		return nil
	})

	if err != nil {
		return PlaceOrderOutput{}, err
	}
	return out, nil
}

// ListOrderHistory は自分の注文履歴（order_date降順）。
// Customerがまだ無い＝一度も購入していないユーザーは404。
func (u *CheckoutUsecase) ListOrderHistory(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		customer, err := r.Customers().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orders, err := r.Orders().ListByCustomerID(ctx, customer.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ProductID:   o.ProductID,
		Name:        o.ProductNameSnapshot,
		Price:       o.UnitPriceSnapshot,
		Quantity:    o.Quantity,
		TotalPrice:  o.TotalPrice,
		OrderDate:   o.OrderDate,
	}
}
