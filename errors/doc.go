/*
Package errors implements custom error interfaces for curio.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Errors are registered with a
unique code that is reported to clients, while the full error chain, together
with a stack trace, stays on the server side.

Use Wrap and Wrapf to add context to an error without losing the original
error code. Use the Is method of a registered error to test an error chain
for its root cause.
*/
package errors
