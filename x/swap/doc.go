/*

Package swap implements a two party asset swap escrow.

A maker deposits an offered asset, native currency or fungible tokens, into a
custody account derived from their address, and declares the asset wanted in
return. The open offer is described by an escrow record keyed by the maker's
address, so each maker can have at most one offer open at a time. A
counterparty fulfills the trade by delivering the wanted asset, or the maker
cancels and reclaims the deposit. Either way the record and any custody
sub-account are destroyed, freeing the derived addresses for reuse.

Custody is held by derived addresses under the well known program identity
configured for this package. The record's discriminant byte persisted at
initiation is the proof re-presented at cancellation and fulfillment; a
mismatch is an authorization failure.

*/
package swap
