package ledger

import (
	"context"
	"reflect"

	"github.com/helios-one/ledger/errors"
)

// Context is the context passed through the stack. Extensions store
// authentication info and block metadata under their own keys.
type Context = context.Context

// Msg is a request for the ledger to take an action (make a state
// transition). It is just the request and must be validated by the handlers.
// All authentication information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Path returns the routing path for this message. It is used by the
	// router to locate the proper handler. Must be alphanumeric with
	// slashes, e.g. "swap/initiate_native".
	Path() string

	// Validate performs static checks that need no store access.
	Validate() error
}

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as Unmarshal almost always requires a
// pointer, and functions that only need to serialize can accept non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx represents the data sent from the user. It includes the actual message
// along with information needed to authenticate the sender. Each application
// defines its own tx type; the handlers only care about the message.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// LoadMsg extracts the message from the transaction, ensures its validity and
// loads it into the destination, which must be a pointer of the same concrete
// type as the transaction's message.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	dval := reflect.ValueOf(destination)
	if dval.Kind() != reflect.Ptr {
		return errors.Wrapf(errors.ErrType, "%T is not a pointer", destination)
	}
	sval := reflect.ValueOf(msg)
	if sval.Type() != dval.Type() {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	dval.Elem().Set(sval.Elem())
	return nil
}

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}
