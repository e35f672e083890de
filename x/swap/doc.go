/*
Package swap implements a premium backed, hash locked exchange between two
parties.

The asset escrower locks an asset and the premium escrower locks a smaller
premium that compensates the asset escrower if the counterparty walks away.
The asset is redeemed by revealing the secret of the commitment key chosen at
setup. Missed deadlines allow refunds or the forfeit of the premium.

All state of a single swap is kept in one record, keyed by the commitment key.
The Engine owns the record store and is the only writer. Every transition runs
within a cache wrapped transaction together with the ledger transfers it
requires: either everything is written or nothing is.

The lifecycle of a swap record is

	Created -> PremiumEscrowed -> AssetEscrowed

and the record is deleted by exactly one of RedeemAsset, RefundPremium,
RefundAsset or RedeemPremium.
*/
package swap
