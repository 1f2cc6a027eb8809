package domain

// Ledger is the append-only, chronologically ordered transaction log of one account.
// It carries no lock of its own; the owning Account serialises access to it.
type Ledger struct {
	entries []Transaction
}

// Append adds tx at the end of the ledger.
func (l *Ledger) Append(tx Transaction) {
	l.entries = append(l.entries, tx)
}

// Snapshot returns a copy of all entries in insertion order.
func (l *Ledger) Snapshot() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recent entry, if any.
func (l *Ledger) Last() (Transaction, bool) {
	if len(l.entries) == 0 {
		return Transaction{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// LastMovement returns the most recent entry that changed the balance, if any.
func (l *Ledger) LastMovement() (Transaction, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].MovesMoney() {
			return l.entries[i], true
		}
	}
	return Transaction{}, false
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}
