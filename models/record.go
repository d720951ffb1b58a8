package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/josephgoksu/pkghistory/types"
)

// DecodePackageChange parses a stored package record.
//
// Three elements are [name, newVersion, size]. Four elements are either the current
// [name, newVersion, size, oldVersion] or the legacy [name, oldVersion, newVersion, size];
// the layout is picked by whichever size position parses as an integer, current first.
func DecodePackageChange(raw []string) (PackageChange, error) {
	switch len(raw) {
	case 3:
		size, ok := parseSize(raw[2])
		if !ok {
			return PackageChange{}, types.NewMalformedRecord(raw, "size is not an integer")
		}
		return NewPackageChange(raw[0], raw[1], size), nil
	case 4:
		if size, ok := parseSize(raw[2]); ok {
			return NewVersionChange(raw[0], raw[3], raw[1], size), nil
		}
		if size, ok := parseSize(raw[3]); ok {
			return NewVersionChange(raw[0], raw[1], raw[2], size), nil
		}
		return PackageChange{}, types.NewMalformedRecord(raw, "no integer size in either supported field order")
	default:
		return PackageChange{}, types.NewMalformedRecord(raw, fmt.Sprintf("expected 3 or 4 fields, got %d", len(raw)))
	}
}

func parseSize(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// EncodePackageChange returns the canonical record [name, newVersion, size, oldVersion?].
func EncodePackageChange(p PackageChange) []string {
	raw := []string{p.Name, p.NewVersion, strconv.FormatInt(p.Size, 10)}
	if p.OldVersion != nil {
		raw = append(raw, *p.OldVersion)
	}
	return raw
}

// AlteredCount is written as a string, as existing history files do, and read from
// either a string or a number.
type AlteredCount int

func (a AlteredCount) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(int(a))), nil
}

func (a *AlteredCount) UnmarshalText(text []byte) error {
	n, err := strconv.Atoi(string(bytes.TrimSpace(text)))
	if err != nil {
		return fmt.Errorf("altered count %q: %w", text, err)
	}
	*a = AlteredCount(n)
	return nil
}

func (a *AlteredCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return a.UnmarshalText([]byte(s))
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("altered count %s: %w", data, err)
	}
	*a = AlteredCount(n)
	return nil
}

// RawTransaction is the stored form of a transaction.
type RawTransaction struct {
	Date        string       `json:"Date" yaml:"Date" toml:"Date"`
	RequestedBy string       `json:"Requested-By" yaml:"Requested-By" toml:"Requested-By"`
	Command     []string     `json:"Command" yaml:"Command" toml:"Command"`
	Altered     AlteredCount `json:"Altered" yaml:"Altered" toml:"Altered"`
	Removed     [][]string   `json:"Removed" yaml:"Removed" toml:"Removed"`
	AutoRemoved [][]string   `json:"Auto-Removed" yaml:"Auto-Removed" toml:"Auto-Removed"`
	Installed   [][]string   `json:"Installed" yaml:"Installed" toml:"Installed"`
	Reinstalled [][]string   `json:"Reinstalled" yaml:"Reinstalled" toml:"Reinstalled"`
	Upgraded    [][]string   `json:"Upgraded" yaml:"Upgraded" toml:"Upgraded"`
	Downgraded  [][]string   `json:"Downgraded" yaml:"Downgraded" toml:"Downgraded"`
}

func (r RawTransaction) list(c Category) [][]string {
	switch c {
	case CategoryRemoved:
		return r.Removed
	case CategoryAutoRemoved:
		return r.AutoRemoved
	case CategoryInstalled:
		return r.Installed
	case CategoryReinstalled:
		return r.Reinstalled
	case CategoryUpgraded:
		return r.Upgraded
	case CategoryDowngraded:
		return r.Downgraded
	default:
		return nil
	}
}

func (r *RawTransaction) setList(c Category, records [][]string) {
	switch c {
	case CategoryRemoved:
		r.Removed = records
	case CategoryAutoRemoved:
		r.AutoRemoved = records
	case CategoryInstalled:
		r.Installed = records
	case CategoryReinstalled:
		r.Reinstalled = records
	case CategoryUpgraded:
		r.Upgraded = records
	case CategoryDowngraded:
		r.Downgraded = records
	}
}

// DecodeTransaction converts a stored record into a Transaction with the given ID.
// Any malformed package record fails the whole transaction.
func DecodeTransaction(id string, raw RawTransaction) (Transaction, error) {
	tx := Transaction{
		ID:          id,
		Date:        raw.Date,
		RequestedBy: raw.RequestedBy,
		Command:     append([]string(nil), raw.Command...),
		Altered:     int(raw.Altered),
	}
	for _, c := range Categories {
		records := raw.list(c)
		changes := make([]PackageChange, 0, len(records))
		for _, rec := range records {
			p, err := DecodePackageChange(rec)
			if err != nil {
				return Transaction{}, fmt.Errorf("transaction %s %s: %w", id, c.Key(), err)
			}
			changes = append(changes, p)
		}
		tx.SetPackages(c, changes)
	}
	return tx, nil
}

// EncodeTransaction converts a Transaction into its stored form. Empty lists are kept
// as empty lists rather than omitted.
func EncodeTransaction(tx Transaction) RawTransaction {
	command := tx.Command
	if command == nil {
		command = []string{}
	}
	raw := RawTransaction{
		Date:        tx.Date,
		RequestedBy: tx.RequestedBy,
		Command:     command,
		Altered:     AlteredCount(tx.Altered),
	}
	for _, c := range Categories {
		changes := tx.Packages(c)
		records := make([][]string, 0, len(changes))
		for _, p := range changes {
			records = append(records, EncodePackageChange(p))
		}
		raw.setList(c, records)
	}
	return raw
}
