package models

import (
	"fmt"
	"strconv"
)

// Document is the full history: transactions in insertion order, which is also ID order.
type Document struct {
	entries []Transaction
}

// NewDocument builds a document from transactions that already carry their IDs.
func NewDocument(txs ...Transaction) *Document {
	d := &Document{entries: make([]Transaction, 0, len(txs))}
	d.entries = append(d.entries, txs...)
	return d
}

// Len returns the number of transactions.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Get looks up a transaction by ID.
func (d *Document) Get(id string) (Transaction, bool) {
	if i := d.index(id); i >= 0 {
		return d.entries[i], true
	}
	return Transaction{}, false
}

func (d *Document) index(id string) int {
	if d == nil {
		return -1
	}
	for i, tx := range d.entries {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// Transactions returns a copy of the transactions in document order.
func (d *Document) Transactions() []Transaction {
	if d == nil {
		return nil
	}
	out := make([]Transaction, len(d.entries))
	copy(out, d.entries)
	return out
}

// IDs returns the transaction IDs in document order.
func (d *Document) IDs() []string {
	ids := make([]string, 0, d.Len())
	for _, tx := range d.Transactions() {
		ids = append(ids, tx.ID)
	}
	return ids
}

// NextID returns the ID the next appended transaction receives.
func (d *Document) NextID() string {
	return strconv.Itoa(d.Len() + 1)
}

// Append assigns the next sequential ID to tx and adds it at the end.
func (d *Document) Append(tx Transaction) (Transaction, error) {
	tx.ID = d.NextID()
	if d.index(tx.ID) >= 0 {
		return Transaction{}, fmt.Errorf("transaction id %s already exists: history ids are not contiguous, clear any transaction to renumber them", tx.ID)
	}
	d.entries = append(d.entries, tx)
	return tx, nil
}

// Delete removes the transaction with the given ID and renumbers the survivors
// densely from "1", keeping their relative order. It reports whether the ID existed.
func (d *Document) Delete(id string) bool {
	i := d.index(id)
	if i < 0 {
		return false
	}
	kept := make([]Transaction, 0, len(d.entries)-1)
	num := 0
	for _, tx := range d.entries {
		if tx.ID == id {
			continue
		}
		num++
		tx.ID = strconv.Itoa(num)
		kept = append(kept, tx)
	}
	d.entries = kept
	return true
}
