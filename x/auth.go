package x

import (
	"github.com/helios-one/ledger"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of handlers,
// so we can plug in another authentication system, rather than hard-coding
// one for all extensions.
type Authenticator interface {
	// GetConditions reveals all conditions fulfilled by the transaction.
	GetConditions(ledger.Context) []ledger.Condition
	// HasAddress checks if any condition matches this address.
	HasAddress(ledger.Context, ledger.Address) bool
}

// MultiAuth chains together many authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// GetConditions combines all conditions from all authenticators.
func (m MultiAuth) GetConditions(ctx ledger.Context) []ledger.Condition {
	var res []ledger.Condition
	for _, impl := range m.impls {
		if add := impl.GetConditions(ctx); len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any authenticator supports this address.
func (m MultiAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first condition if any, otherwise nil.
func MainSigner(ctx ledger.Context, auth Authenticator) ledger.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are also in the
// context.
func HasAllAddresses(ctx ledger.Context, auth Authenticator, required []ledger.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}
