/*
Package revsplittest provides mocks and helpers for testing extensions and
the application. Nothing in this package is meant to be used outside of
tests.
*/
package revsplittest
