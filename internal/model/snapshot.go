package model

import "time"

// UngroupedBucket is the fallback classification for receivable
// accounts whose parent chain contains no known group.
const UngroupedBucket = "No-Group"

// Snapshot is the persisted result of a sync cycle. It is rebuilt from
// scratch each cycle and swapped in atomically; readers never see a
// partial write.
type Snapshot struct {
	UpdatedAt time.Time            `json:"updatedAt"`
	Groups    map[string][]Account `json:"groups"`    // receivables, bucketed by group
	Ungrouped []Account            `json:"ungrouped"` // receivables under no known group
	Payables  []Account            `json:"payables"`  // flat list for the payables root
}

// EmptySnapshot returns a snapshot with no accounts, used before the
// first sync cycle has run.
func EmptySnapshot() Snapshot {
	return Snapshot{Groups: map[string][]Account{}}
}

// AccountIndex returns all accounts in the snapshot keyed by name.
func (s Snapshot) AccountIndex() map[string]Account {
	idx := make(map[string]Account)
	for _, accts := range s.Groups {
		for _, a := range accts {
			idx[a.Name] = a
		}
	}
	for _, a := range s.Ungrouped {
		idx[a.Name] = a
	}
	for _, a := range s.Payables {
		idx[a.Name] = a
	}
	return idx
}

// AccountCount returns the total number of accounts across all buckets.
func (s Snapshot) AccountCount() int {
	n := len(s.Ungrouped) + len(s.Payables)
	for _, accts := range s.Groups {
		n += len(accts)
	}
	return n
}
