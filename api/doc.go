/*
Package api exposes the swap state over a read only HTTP interface.

	GET /healthz
	GET /swaps?asset_escrower=<address>
	GET /swaps?premium_escrower=<address>
	GET /swaps/{key}
	GET /swaps/{key}/deadlines
	GET /swaps/{key}/events
	GET /balances/{address}

Commitment keys are hex encoded. Addresses accept every format understood by
pswap.ParseAddress. Every response is a JSON document with a "status" field.
Failed requests carry the numeric error code and a message.
*/
package api
