/*
Faucet contract serves small fixed GAS payouts on request.

The faucet is replenished by plain GAS transfers to the contract account.
Every address is served at most once per committee-configured cooldown, the
per-request amount is configurable as well.

# Contract notifications

Drip notification. This notification is produced on every served request.

	Drip:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package faucet
