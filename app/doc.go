/*
Package app assembles an application from reusable pieces.

A Router dispatches transactions to handlers based on the path of the
message they carry. ChainDecorators wraps the router in a stack of
decorators so cross-cutting concerns like logging, panic recovery and
savepoints run around every transaction.
*/
package app
