/*
Package x contains the extensions built on top of the curio kernel,
along with the shared Authenticator abstraction they use to check
who signed the current transaction.

Each extension lives in its own subpackage and exposes a
RegisterRoutes function to wire its message handlers into the
application router.
*/
package x
