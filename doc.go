/*
Package curio defines all common interfaces that tie together the
subpackages of a deterministic state machine for custodial trading of unique
digital collectibles.

The root package holds only interfaces and the simplest shared components:
deterministic address derivation (Condition, Address), the key-value storage
contracts, transaction and message envelopes, and the Handler/Decorator
execution model. All actual behavior lives in extensions under x/, composed
by the app package.
*/
package curio
