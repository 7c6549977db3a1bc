/*
Locker contract escrows GAS under linear vesting schedules.

A lock is created by its sender for a recipient with a start, cliff and end
timestamp. Nothing can be claimed before the cliff, afterwards the claimable
amount grows linearly between start and end. The recipient withdraws the
vested part with claim, as many times as they like, each claim paying out
only the part not claimed before.

# Contract notifications

Lock notification. This notification is produced when a new lock is
created.

	Lock:
	  - name: lockId
	    type: ByteArray
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: start
	    type: Integer
	  - name: cliff
	    type: Integer
	  - name: end
	    type: Integer

Claim notification. This notification is produced on every successful
claim.

	Claim:
	  - name: lockId
	    type: ByteArray
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package locker
