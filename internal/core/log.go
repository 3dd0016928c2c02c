package core

// Entry is a single recorded line in a buffer log.
type Entry struct {
	Author string
	Text   string
}

// Log is the append-only message history of one buffer. It grows for the
// lifetime of its owning buffer; nothing is ever evicted.
type Log struct {
	entries []Entry
}

// Append adds an entry at the tail.
func (l *Log) Append(author, text string) {
	l.entries = append(l.entries, Entry{Author: author, Text: text})
}

// Entries returns the recorded entries in append order.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Len reports the number of recorded entries.
func (l *Log) Len() int {
	return len(l.entries)
}
