/*
Package token maintains fungible token balances.

A token account is addressed by its own derived address and records the mint
it holds, the authority allowed to move its balance, and the balance itself.
Unlike native wallets, token accounts must be created explicitly before they
can receive funds, and they can only be closed once their balance is zero.
*/
package token
