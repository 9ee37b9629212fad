/*
Package bank maintains native currency balances.

It is the native half of the value transfer service: wallets are stored per
address, and every movement out of a wallet must present an authority over
the source address - either the sender's signature or a derivation proof for
a program controlled account. Closing a wallet sweeps whatever balance is
left to a recipient, mirroring how closing a storage account returns its
funds in one step.
*/
package bank
