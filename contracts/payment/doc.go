/*
Package payment implements Payment contract which transfers NEP-17 assets
between accounts and collects a service fee.

Every payment is charged with a 0.01% fee (amount/10000, truncated) on top of
the paid amount: the recipient gets exactly the requested amount while the
sender additionally pays the fee to the contract's own account. Payments below
10000 units carry no fee. Collected fees stay on the contract account until the
contract administrator withdraws them. The administrator is set once with
Initialize and can never be changed.

Payments do not require an administrator, only fee withdrawal does.

# Contract notifications

Initialized notification. This notification is produced when the contract
administrator is set.

	Initialized:
	  - name: admin
	    type: Hash160

Payment notification. This notification is produced on every successful
payment.

	Payment:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: token
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: fee
	    type: Integer

FeesWithdrawn notification. This notification is produced when collected fees
are transferred out of the contract.

	FeesWithdrawn:
	  - name: token
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package payment

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'Admin' -> interop.Hash160
   script hash of the contract administrator, written once

# Fees
Fees are not tracked in the storage, they are kept as the contract's own balance
in the token contracts.
*/
