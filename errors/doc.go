/*

Package errors implements the error handling used by the whole module.

Every failure wraps one of the root errors declared here. Handlers and tests
never compare error messages; they test with the root error Is method. Each
root error carries a numeric code so a failure can be reported to clients as
a specific, named reason without leaking internals.

*/
package errors
