package swap

import (
	"github.com/helios-one/ledger"
)

// Derivation namespaces. escrowNamespace scopes the per-owner custody
// address carrying the record and any native deposit; tokenNamespace scopes
// the token sub-account, seeded by the escrow address and the mint so
// different mints never collide.
const (
	escrowNamespace = "escrow"
	tokenNamespace  = "vault"
)

// EscrowAddress derives the custody address for the given owner under the
// program identity, along with the discriminant that produced it.
func EscrowAddress(program, owner ledger.Address) (ledger.Address, uint8) {
	return ledger.Derive(program, escrowNamespace, owner)
}

// EscrowProof rebuilds the capability to act as the owner's custody address
// from the discriminant persisted in the escrow record.
func EscrowProof(program, owner ledger.Address, bump uint8) ledger.DerivationProof {
	return ledger.DerivationProof{
		Program:   program,
		Namespace: escrowNamespace,
		Seeds:     [][]byte{owner},
		Bump:      bump,
	}
}

// TokenCustodyAddress derives the token account holding a fungible deposit,
// scoped to the escrow's custody address and the mint.
func TokenCustodyAddress(program, escrowAddr, mint ledger.Address) (ledger.Address, uint8) {
	return ledger.Derive(program, tokenNamespace, escrowAddr, mint)
}
