/*

Package ledger defines the interfaces used throughout the module: storage,
transactions, messages, handlers, addresses and deterministic custody
derivation. Extensions under x/ implement the actual state transitions and
only ever talk to each other through the interfaces declared here.

*/

package ledger
