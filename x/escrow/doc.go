/*
Package escrow implements a custodial marketplace listing for a
one-of-a-kind collectible, sold against a fungible payment asset
with a fixed fee cut for a beneficiary.

Every listing is a record stored at an address derived from the
(owner, collectible) pair, next to a holding account that takes
custody of the collectible. The holding account is owned by a
derived authority that no key pair can control, so the collectible
can only leave custody through the purchase or the cancel path.

A purchase settles in one atomic unit: the buyer pays the fee to
the beneficiary and the rest to the seller, then the collectible
moves to the buyer and both the holding account and the record are
retired. Cancelling returns the collectible to the owner instead,
with no payment movement.
*/
package escrow
