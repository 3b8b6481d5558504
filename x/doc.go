/*
Package x contains the standard extensions of the router application.

Extensions implement common functionality (Handler, Decorator, etc.) and are
combined together to construct an application. This package holds helpers
shared by all of them, most importantly the Authenticator abstraction that
lets a handler learn who signed the transaction.
*/
package x
