package token

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/curiotest"
	"github.com/iov-one/curio/store"
)

func TestGenesisAccounts(t *testing.T) {
	wallet := curiotest.NewAddress()
	holding := curiotest.NewAddress()
	authority := curiotest.NewAddress()
	coin := newAsset(9)

	genesis := fmt.Sprintf(`[
		{"address": %q, "asset": %q, "balance": 50},
		{"address": %q, "owner": %q, "asset": %q, "balance": 1}
	]`, wallet, coin, holding, authority, coin)

	opts := curio.Options{"token": json.RawMessage(genesis)}
	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	ctrl := NewController()

	acct, err := ctrl.Account(db, wallet)
	require.NoError(t, err)
	// without an explicit owner the account owns itself
	assert.Equal(t, wallet, acct.Owner)
	assert.Equal(t, int64(50), acct.Balance)

	acct, err = ctrl.Account(db, holding)
	require.NoError(t, err)
	assert.Equal(t, authority, acct.Owner)
	assert.Equal(t, int64(1), acct.Balance)
}

func TestGenesisMissingKey(t *testing.T) {
	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(curio.Options{}, db))
}
