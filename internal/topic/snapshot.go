package topic

// Entry is the serialized form of one topic.
type Entry struct {
	Name string `json:"name"`
	Stat
}

// Snapshot returns the ledger as an ordered list.
func (l *Ledger) Snapshot() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, Entry{Name: name, Stat: *l.stats[name]})
	}
	return out
}

// LoadSnapshot rebuilds a ledger from entries. Duplicate names keep the
// first occurrence.
func LoadSnapshot(entries []Entry) *Ledger {
	l := NewLedger()
	for _, e := range entries {
		if _, ok := l.stats[e.Name]; ok || e.Name == "" {
			continue
		}
		s := e.Stat
		l.stats[e.Name] = &s
		l.order = append(l.order, e.Name)
	}
	return l
}
