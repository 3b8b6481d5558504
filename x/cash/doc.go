/*
Package cash keeps account balances and moves coins between addresses.

There is no logic in the coins (tokens), except that the balance
of any coin may not go below zero. Thus, this implementation is
referred to as cash. Simple and safe.
*/
package cash
