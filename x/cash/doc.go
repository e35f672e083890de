/*
Package cash is the reference ledger used to move value in and out of swap
custody.

Every address owns a wallet, a sorted set of coins stored in the "cash"
bucket. The Controller moves and issues coins, the Gateway exposes the
controller as a ledger that reports the amount that was actually delivered.
A transfer fee can be configured per ticker in order to model assets that
charge for every transfer.
*/
package cash
