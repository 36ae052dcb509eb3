/*
Package token implements a minimal asset ledger.

Every account holds a balance of exactly one asset and is stored
under an address that identifies the account itself. The account
carries a separate owner address, the only authority allowed to
move funds out or to close the account. Most wallets are their own
owner, while custodial accounts are owned by a derived authority
that no key pair controls.

Other extensions interact with the ledger through the Controller
interface, so they can settle payments and move collectibles
without knowing how accounts are stored.
*/
package token
