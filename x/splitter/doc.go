/*
Package splitter implements a revenue router that forwards collected coins to
three destination wallets: the founder, the DAO treasury and the charity
safe.

The share of each destination is declared by a split expressed in basis
points. Over its lifetime the router goes through three phases.

In the survival phase the founder receives the whole revenue. The governor
can move the router into the transition phase, during which a new split can
be scheduled. A scheduled split becomes effective only after a timelock and
can be applied by anyone once the timelock elapsed. Only one split can be
scheduled at a time, a new proposal replaces the pending one.

The admin can at any time before that activate the permanent split. The
founder share of a permanent split cannot exceed ten percent. Once the router
is permanent neither the split nor the destination wallets can be changed
anymore.

Coins are sent to the router account. Distribution is permissionless and
moves the whole balance of a single currency held by the router account
between the destinations. Any rounding remainder goes to the charity safe.
*/
package splitter
