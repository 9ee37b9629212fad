package ledgertest

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/helios-one/ledger"
)

// NewCondition returns a random condition, as if a new key pair signed a
// transaction.
func NewCondition() ledger.Condition {
	data := make([]byte, 16)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return ledger.NewCondition("sigs", "ed25519", data)
}

// Auth is a mock implementing the x.Authenticator interface. It
// authenticates any of the referenced conditions.
type Auth struct {
	// Signer is a convenience attribute for a single signer.
	Signer ledger.Condition

	// Signers authenticates multiple signers.
	Signers []ledger.Condition
}

func (a *Auth) GetConditions(ledger.Context) []ledger.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing the x.Authenticator interface, using the
// context to store and retrieve conditions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx ledger.Context, conds ...ledger.Condition) ledger.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx ledger.Context) []ledger.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]ledger.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []ledger.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
