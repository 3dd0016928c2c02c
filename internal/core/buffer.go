package core

import (
	"fmt"
	"strings"
)

// ChannelSigil prefixes channel names. Any other non-root buffer name is a
// private chat with the nick it is named after.
const ChannelSigil = "#"

// SystemAuthor attributes synthetic notices such as join and part messages.
const SystemAuthor = "*"

// Buffer is one conversation context: a channel, a private chat, or the root
// buffer that receives connection-level notices.
type Buffer struct {
	Name    string
	Current bool
	Log     *Log
}

// IsChannel reports whether the buffer names a channel.
func (b *Buffer) IsChannel() bool {
	return strings.HasPrefix(b.Name, ChannelSigil)
}

// BufferSet is the ordered collection of open buffers. Exactly one buffer is
// current at all times and the root buffer exists for the lifetime of the set.
type BufferSet struct {
	root    string
	buffers []*Buffer
}

// NewBufferSet creates a set holding only the root buffer, marked current.
func NewBufferSet(root string) *BufferSet {
	return &BufferSet{
		root:    root,
		buffers: []*Buffer{{Name: root, Current: true, Log: &Log{}}},
	}
}

// Root returns the root buffer name.
func (s *BufferSet) Root() string {
	return s.root
}

// Len reports the number of open buffers.
func (s *BufferSet) Len() int {
	return len(s.buffers)
}

// Buffers returns the open buffers in insertion order.
func (s *BufferSet) Buffers() []*Buffer {
	return s.buffers
}

func (s *BufferSet) lookup(name string) (int, *Buffer) {
	for i, b := range s.buffers {
		if b.Name == name {
			return i, b
		}
	}
	return -1, nil
}

// Ensure returns the buffer named name, creating it (not current, with an
// empty log) when absent.
func (s *BufferSet) Ensure(name string) *Buffer {
	if _, b := s.lookup(name); b != nil {
		return b
	}
	b := &Buffer{Name: name, Log: &Log{}}
	s.buffers = append(s.buffers, b)
	return b
}

// SetCurrent marks name as the current buffer and unmarks the previous one.
// Callers creating a buffer must Ensure it first.
func (s *BufferSet) SetCurrent(name string) error {
	_, b := s.lookup(name)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrUnknownBuffer, name)
	}
	s.Current().Current = false
	b.Current = true
	return nil
}

// Current returns the buffer marked current.
func (s *BufferSet) Current() *Buffer {
	for _, b := range s.buffers {
		if b.Current {
			return b
		}
	}
	// Unreachable while the exactly-one-current invariant holds.
	return s.buffers[0]
}

// Remove deletes the buffer named name. The root buffer cannot be removed.
// When the removed buffer was current, the next buffer in insertion order
// becomes current, wrapping to the front of the set.
func (s *BufferSet) Remove(name string) error {
	if name == s.root {
		return fmt.Errorf("%w: %s", ErrProtectedBuffer, name)
	}
	i, b := s.lookup(name)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrUnknownBuffer, name)
	}
	s.buffers = append(s.buffers[:i], s.buffers[i+1:]...)
	if b.Current {
		s.buffers[i%len(s.buffers)].Current = true
	}
	return nil
}

// Next returns the buffer after the current one in insertion order,
// cyclically. The current buffer is not changed.
func (s *BufferSet) Next() *Buffer {
	return s.neighbor(1)
}

// Previous returns the buffer before the current one in insertion order,
// cyclically. The current buffer is not changed.
func (s *BufferSet) Previous() *Buffer {
	return s.neighbor(-1)
}

func (s *BufferSet) neighbor(step int) *Buffer {
	i, _ := s.lookup(s.Current().Name)
	n := len(s.buffers)
	return s.buffers[(i+step+n)%n]
}

// Send records a chat entry in target's log, creating the buffer when absent.
func (s *BufferSet) Send(target, author, text string) {
	s.Ensure(target).Log.Append(author, text)
}

// SystemMessage records a synthetic notice in channel's log, creating the
// buffer when absent.
func (s *BufferSet) SystemMessage(channel, text string) {
	s.Send(channel, SystemAuthor, text)
}

// RenameNick carries a nick change across the set. A private chat buffer named
// after the old nick is renamed so follow-up messages land in the same buffer.
// Recorded log entries keep the author that was valid at post time.
func (s *BufferSet) RenameNick(oldNick, newNick string) {
	if _, taken := s.lookup(newNick); taken != nil {
		return
	}
	if _, b := s.lookup(oldNick); b != nil {
		b.Name = newNick
	}
}
