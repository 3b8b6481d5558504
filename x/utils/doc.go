/*
Package utils provides the decorators shared by every application built on
top of this module: panic recovery, logging, savepoints and transaction
tagging.
*/
package utils
