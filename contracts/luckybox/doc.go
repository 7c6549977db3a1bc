/*
Luckybox contract is a single-use escrow distributing a GAS fund among a
fixed number of recipients.

A box is created by one of the pack methods which withdraws the fund plus a
prepaid gas pool from the packer into the contract account. Each successful
unpack releases one share, either a uniformly drawn random one or a fixed
even one, and consumes part of the prepaid gas pool, a bigger part when the
recipient account had no prior GAS activity. The last recipient always
receives everything still remaining, so the packed amount is conserved
exactly across all payouts and the final settlement.

Recipients are authorized by exactly one of three schemes chosen at packing
time: an allowlist of consumable 8-byte address prefixes, a Merkle
commitment verified against an 8-byte root, or signatures of a guardian
key over a domain-separated message. Calling an unpack method that does not
match the box scheme is a hard error.

A box is settled automatically when its last share is released, or manually
through refund once it has expired. Settlement returns the unclaimed fund
and unused prepaid gas to the packer, forwards the consumed gas to the
deploy-time beneficiary and is terminal.

# Contract notifications

Packing notification. This notification is produced when a new box is
created.

	Packing:
	  - name: boxId
	    type: ByteArray
	  - name: packer
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: count
	    type: Integer
	  - name: mode
	    type: Integer
	  - name: auth
	    type: Integer
	  - name: expiry
	    type: Integer

Unpacking notification. This notification is produced on every released
share.

	Unpacking:
	  - name: boxId
	    type: ByteArray
	  - name: unpacker
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: amountRemain
	    type: Integer
	  - name: countRemain
	    type: Integer

Refund notification. This notification is produced when a box is settled.

	Refund:
	  - name: boxId
	    type: ByteArray
	  - name: packer
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: gasAmount
	    type: Integer
*/
package luckybox
