package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/curiotest"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/store"
)

func newAsset(seed byte) AssetID {
	id := make(AssetID, AssetIDLength)
	for i := range id {
		id[i] = seed
	}
	return id
}

func TestIssueAndBalance(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	addr := curiotest.NewAddress()
	coin := newAsset(1)

	_, err := ctrl.Balance(db, addr)
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, ctrl.Issue(db, addr, coin, 500))
	bal, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(500), bal)

	// issuing again adds up
	require.NoError(t, ctrl.Issue(db, addr, coin, 70))
	bal, err = ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(570), bal)

	// cannot issue another asset to the same account
	err = ctrl.Issue(db, addr, newAsset(2), 1)
	assert.True(t, ErrAssetMismatch.Is(err))
}

func TestCreateAccount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	addr := curiotest.NewAddress()
	owner := curiotest.NewAddress()
	coin := newAsset(1)

	require.NoError(t, ctrl.Create(db, addr, owner, coin))

	acct, err := ctrl.Account(db, addr)
	require.NoError(t, err)
	assert.Equal(t, owner, acct.Owner)
	assert.Equal(t, int64(0), acct.Balance)

	// same address cannot be taken twice
	err = ctrl.Create(db, addr, owner, coin)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestMove(t *testing.T) {
	coin := newAsset(1)
	other := newAsset(2)

	alice := curiotest.NewAddress()
	bob := curiotest.NewAddress()
	carl := curiotest.NewAddress()

	cases := map[string]struct {
		setup     func(t *testing.T, db curio.KVStore, ctrl BaseController)
		asset     AssetID
		src, dest curio.Address
		authority curio.Address
		amount    int64
		wantErr   *errors.Error
		wantSrc   int64
		wantDest  int64
	}{
		"happy path": {
			setup: func(t *testing.T, db curio.KVStore, ctrl BaseController) {
				require.NoError(t, ctrl.Issue(db, alice, coin, 100))
				require.NoError(t, ctrl.Issue(db, bob, coin, 5))
			},
			asset: coin, src: alice, dest: bob, authority: alice,
			amount:  60,
			wantSrc: 40, wantDest: 65,
		},
		"zero amount is a no-op": {
			setup: func(t *testing.T, db curio.KVStore, ctrl BaseController) {
				require.NoError(t, ctrl.Issue(db, alice, coin, 100))
				require.NoError(t, ctrl.Issue(db, bob, coin, 5))
			},
			asset: coin, src: alice, dest: bob, authority: alice,
			amount:  0,
			wantSrc: 100, wantDest: 5,
		},
		"insufficient balance": {
			setup: func(t *testing.T, db curio.KVStore, ctrl BaseController) {
				require.NoError(t, ctrl.Issue(db, alice, coin, 10))
				require.NoError(t, ctrl.Issue(db, bob, coin, 0))
			},
			asset: coin, src: alice, dest: bob, authority: alice,
			amount:  11,
			wantErr: errors.ErrAmount,
			wantSrc: 10, wantDest: 0,
		},
		"missing source": {
			setup: func(t *testing.T, db curio.KVStore, ctrl BaseController) {
				require.NoError(t, ctrl.Issue(db, bob, coin, 5))
			},
			asset: coin, src: alice, dest: bob, authority: alice,
			amount:  1,
			wantErr: errors.ErrNotFound,
		},
		"missing destination": {
			setup: func(t *testing.T, db curio.KVStore, ctrl BaseController) {
				require.NoError(t, ctrl.Issue(db, alice, coin, 5))
			},
			asset: coin, src: alice, dest: bob, authority: alice,
			amount:  1,
			wantErr: errors.ErrNotFound,
		},
		"wrong authority": {
			setup: func(t *testing.T, db curio.KVStore, ctrl BaseController) {
				require.NoError(t, ctrl.Issue(db, alice, coin, 100))
				require.NoError(t, ctrl.Issue(db, bob, coin, 0))
			},
			asset: coin, src: alice, dest: bob, authority: carl,
			amount:  1,
			wantErr: errors.ErrUnauthorized,
			wantSrc: 100, wantDest: 0,
		},
		"asset mismatch": {
			setup: func(t *testing.T, db curio.KVStore, ctrl BaseController) {
				require.NoError(t, ctrl.Issue(db, alice, coin, 100))
				require.NoError(t, ctrl.Issue(db, bob, other, 0))
			},
			asset: coin, src: alice, dest: bob, authority: alice,
			amount:  1,
			wantErr: ErrAssetMismatch,
			wantSrc: 100,
		},
		"negative amount": {
			setup: func(t *testing.T, db curio.KVStore, ctrl BaseController) {
				require.NoError(t, ctrl.Issue(db, alice, coin, 100))
				require.NoError(t, ctrl.Issue(db, bob, coin, 0))
			},
			asset: coin, src: alice, dest: bob, authority: alice,
			amount:  -4,
			wantErr: errors.ErrAmount,
			wantSrc: 100, wantDest: 0,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			tc.setup(t, db, ctrl)

			err := ctrl.Move(db, tc.asset, tc.src, tc.dest, tc.authority, tc.amount)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)

			src, err := ctrl.Balance(db, tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, src)
			dest, err := ctrl.Balance(db, tc.dest)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDest, dest)
		})
	}
}

func TestClose(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	coin := newAsset(1)
	addr := curiotest.NewAddress()
	owner := curiotest.NewAddress()
	stranger := curiotest.NewAddress()

	require.NoError(t, ctrl.Create(db, addr, owner, coin))
	require.NoError(t, ctrl.Issue(db, addr, coin, 0))

	// only the owner can close
	err := ctrl.Close(db, addr, stranger)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	require.NoError(t, ctrl.Close(db, addr, owner))

	// account is gone now
	_, err = ctrl.Account(db, addr)
	assert.True(t, errors.ErrNotFound.Is(err))
	err = ctrl.Close(db, addr, owner)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestCloseNonEmpty(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	coin := newAsset(1)
	addr := curiotest.NewAddress()

	require.NoError(t, ctrl.Issue(db, addr, coin, 3))
	err := ctrl.Close(db, addr, addr)
	assert.True(t, ErrNonEmptyAccount.Is(err))
}
