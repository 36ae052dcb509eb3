package app_test

import (
	"context"
	"testing"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/app"
	"github.com/iov-one/curio/curiotest"
	"github.com/iov-one/curio/curiotest/assert"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/orm"
	"github.com/iov-one/curio/store"
	"github.com/iov-one/curio/x/escrow"
	"github.com/iov-one/curio/x/token"
	"github.com/iov-one/curio/x/utils"
)

// marketApp runs the full decorator stack around a router with the
// token and escrow routes registered, the way a node would wire it.
type marketApp struct {
	handler curio.Handler
	db      curio.CacheableKVStore
	auth    *curiotest.CtxAuth
	ctrl    token.BaseController
	bucket  orm.ModelBucket

	ownerCond curio.Condition
	buyerCond curio.Condition

	owner       curio.Address
	buyer       curio.Address
	sellerPay   curio.Address
	beneficiary curio.Address
	buyerGoods  curio.Address

	collectible token.AssetID
	payment     token.AssetID

	record curio.Address
	bump   byte
}

func newAsset(seed byte) token.AssetID {
	a := make(token.AssetID, token.AssetIDLength)
	a[0] = seed
	return a
}

func newMarketApp(t testing.TB, buyerFunds int64) *marketApp {
	t.Helper()

	m := &marketApp{
		db:          store.MemStore(),
		auth:        &curiotest.CtxAuth{Key: "auth"},
		ctrl:        token.NewController(),
		bucket:      escrow.NewBucket(),
		ownerCond:   curiotest.NewCondition(),
		buyerCond:   curiotest.NewCondition(),
		sellerPay:   curiotest.NewAddress(),
		beneficiary: curiotest.NewAddress(),
		buyerGoods:  curiotest.NewAddress(),
		collectible: newAsset(1),
		payment:     newAsset(2),
	}
	m.owner = m.ownerCond.Address()
	m.buyer = m.buyerCond.Address()
	m.record = escrow.RecordAddress(m.owner, m.collectible)

	bump, _, err := escrow.FindLockBump(m.owner, m.collectible)
	assert.Nil(t, err)
	m.bump = bump

	r := app.NewRouter()
	token.RegisterRoutes(r, m.auth, m.ctrl)
	escrow.RegisterRoutes(r, m.auth, m.ctrl)
	m.handler = app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)

	assert.Nil(t, m.ctrl.Issue(m.db, m.owner, m.collectible, 1))
	assert.Nil(t, m.ctrl.Issue(m.db, m.buyer, m.payment, buyerFunds))
	assert.Nil(t, m.ctrl.Issue(m.db, m.sellerPay, m.payment, 0))
	assert.Nil(t, m.ctrl.Issue(m.db, m.beneficiary, m.payment, 0))
	assert.Nil(t, m.ctrl.Issue(m.db, m.buyerGoods, m.collectible, 0))
	return m
}

func (m *marketApp) deliver(signer curio.Condition, msg curio.Msg) error {
	ctx := m.auth.SetConditions(context.Background(), signer)
	_, err := m.handler.Deliver(ctx, m.db, &curiotest.Tx{Msg: msg})
	return err
}

func (m *marketApp) check(signer curio.Condition, msg curio.Msg) (*curio.CheckResult, error) {
	ctx := m.auth.SetConditions(context.Background(), signer)
	return m.handler.Check(ctx, m.db, &curiotest.Tx{Msg: msg})
}

func (m *marketApp) create(signer curio.Condition) error {
	return m.deliver(signer, &escrow.CreateMsg{
		Owner:        m.owner,
		Collectible:  m.collectible,
		PaymentAsset: m.payment,
		Beneficiary:  m.beneficiary,
	})
}

func (m *marketApp) list(signer curio.Condition, price int64) error {
	return m.deliver(signer, &escrow.ListMsg{
		Escrow: m.record,
		Source: m.owner,
		Price:  price,
	})
}

func (m *marketApp) buy(signer curio.Condition) error {
	return m.deliver(signer, &escrow.BuyMsg{
		Escrow:           m.record,
		Seller:           m.owner,
		BuyerPayment:     m.buyer,
		SellerPayment:    m.sellerPay,
		BuyerCollectible: m.buyerGoods,
		LockBump:         m.bump,
	})
}

func (m *marketApp) cancel(signer curio.Condition) error {
	return m.deliver(signer, &escrow.ReturnMsg{
		Escrow:      m.record,
		Destination: m.owner,
		LockBump:    m.bump,
	})
}

func (m *marketApp) balance(t testing.TB, addr curio.Address) int64 {
	t.Helper()
	b, err := m.ctrl.Balance(m.db, addr)
	assert.Nil(t, err)
	return b
}

func TestFullSaleFlow(t *testing.T) {
	m := newMarketApp(t, 5000)

	assert.Nil(t, m.create(m.ownerCond))
	assert.Nil(t, m.list(m.ownerCond, 1000))
	assert.Nil(t, m.buy(m.buyerCond))

	assert.Equal(t, int64(40), m.balance(t, m.beneficiary))
	assert.Equal(t, int64(960), m.balance(t, m.sellerPay))
	assert.Equal(t, int64(4000), m.balance(t, m.buyer))
	assert.Equal(t, int64(1), m.balance(t, m.buyerGoods))

	var rec escrow.Escrow
	assert.IsErr(t, errors.ErrNotFound, m.bucket.One(m.db, m.record, &rec))
	_, err := m.ctrl.Account(m.db, escrow.HoldingAddress(m.owner, m.collectible))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestFullCancelFlow(t *testing.T) {
	m := newMarketApp(t, 5000)

	assert.Nil(t, m.create(m.ownerCond))
	assert.Nil(t, m.list(m.ownerCond, 1000))
	assert.Nil(t, m.cancel(m.ownerCond))

	assert.Equal(t, int64(1), m.balance(t, m.owner))
	assert.Equal(t, int64(5000), m.balance(t, m.buyer))

	var rec escrow.Escrow
	assert.IsErr(t, errors.ErrNotFound, m.bucket.One(m.db, m.record, &rec))
	_, err := m.ctrl.Account(m.db, escrow.HoldingAddress(m.owner, m.collectible))
	assert.IsErr(t, errors.ErrNotFound, err)
}

// A failed settlement must leave no trace, even when the fee leg
// already went through before the seller leg ran out of funds.
func TestFailedPurchaseRollsBack(t *testing.T) {
	m := newMarketApp(t, 100)

	assert.Nil(t, m.create(m.ownerCond))
	assert.Nil(t, m.list(m.ownerCond, 1000))
	assert.IsErr(t, errors.ErrAmount, m.buy(m.buyerCond))

	assert.Equal(t, int64(100), m.balance(t, m.buyer))
	assert.Equal(t, int64(0), m.balance(t, m.beneficiary))
	assert.Equal(t, int64(0), m.balance(t, m.sellerPay))
	assert.Equal(t, int64(0), m.balance(t, m.buyerGoods))

	// the listing survives and can still be settled later
	var rec escrow.Escrow
	assert.Nil(t, m.bucket.One(m.db, m.record, &rec))
	assert.Equal(t, int64(1000), rec.Price)
	assert.Equal(t, int64(1), m.balance(t, escrow.HoldingAddress(m.owner, m.collectible)))
}

func TestCancelBeatsPurchase(t *testing.T) {
	m := newMarketApp(t, 5000)

	assert.Nil(t, m.create(m.ownerCond))
	assert.Nil(t, m.list(m.ownerCond, 1000))
	assert.Nil(t, m.cancel(m.ownerCond))
	assert.IsErr(t, errors.ErrNotFound, m.buy(m.buyerCond))

	assert.Equal(t, int64(5000), m.balance(t, m.buyer))
	assert.Equal(t, int64(1), m.balance(t, m.owner))
}

func TestPurchaseBeatsCancel(t *testing.T) {
	m := newMarketApp(t, 5000)

	assert.Nil(t, m.create(m.ownerCond))
	assert.Nil(t, m.list(m.ownerCond, 1000))
	assert.Nil(t, m.buy(m.buyerCond))
	assert.IsErr(t, errors.ErrNotFound, m.cancel(m.ownerCond))

	assert.Equal(t, int64(1), m.balance(t, m.buyerGoods))
	assert.Equal(t, int64(960), m.balance(t, m.sellerPay))
}

func TestSecondPurchaseFails(t *testing.T) {
	m := newMarketApp(t, 5000)

	assert.Nil(t, m.create(m.ownerCond))
	assert.Nil(t, m.list(m.ownerCond, 1000))
	assert.Nil(t, m.buy(m.buyerCond))
	assert.IsErr(t, errors.ErrNotFound, m.buy(m.buyerCond))

	// a single settlement worth of funds moved
	assert.Equal(t, int64(4000), m.balance(t, m.buyer))
	assert.Equal(t, int64(40), m.balance(t, m.beneficiary))
	assert.Equal(t, int64(960), m.balance(t, m.sellerPay))
}

func TestTokenSendThroughStack(t *testing.T) {
	m := newMarketApp(t, 5000)

	err := m.deliver(m.buyerCond, &token.SendMsg{
		Source:      m.buyer,
		Destination: m.sellerPay,
		Amount:      300,
	})
	assert.Nil(t, err)
	assert.Equal(t, int64(4700), m.balance(t, m.buyer))
	assert.Equal(t, int64(300), m.balance(t, m.sellerPay))

	// only the account owner can move funds out
	err = m.deliver(m.ownerCond, &token.SendMsg{
		Source:      m.buyer,
		Destination: m.sellerPay,
		Amount:      300,
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestCheckAllocatesGas(t *testing.T) {
	m := newMarketApp(t, 5000)

	res, err := m.check(m.ownerCond, &escrow.CreateMsg{
		Owner:        m.owner,
		Collectible:  m.collectible,
		PaymentAsset: m.payment,
		Beneficiary:  m.beneficiary,
	})
	assert.Nil(t, err)
	assert.Equal(t, int64(300), res.GasAllocated)
}

func TestUnknownRouteRejected(t *testing.T) {
	m := newMarketApp(t, 5000)

	err := m.deliver(m.ownerCond, &curiotest.Msg{RoutePath: "no/route"})
	assert.IsErr(t, errors.ErrNotFound, err)
}
