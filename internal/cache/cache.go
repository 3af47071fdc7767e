// Package cache keeps an in-memory view of gateway resources.
//
// Only the resource types named in Config.Resources are retained; every
// other event passes through Update untouched. The dispatcher is the single
// writer, any number of handlers may read.
package cache

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/deque"
	"github.com/samber/mo"
)

// ResourceType is a bit set of cacheable resources
type ResourceType uint8

const (
	// ResourceMessage retains message create/update/delete state
	ResourceMessage ResourceType = 1 << iota
)

// Has reports whether r includes every bit of other
func (r ResourceType) Has(other ResourceType) bool {
	return r&other == other
}

// Config represents cache configuration
type Config struct {
	Resources ResourceType
	// MaxMessages bounds the message map; the oldest insert is evicted first.
	// Zero or negative keeps every message for the life of the process.
	MaxMessages int
}

// Entry is the retained subset of a message
type Entry struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	Content   string
	Timestamp time.Time
	EditedAt  *time.Time

	seq uint64
}

type orderKey struct {
	id  string
	seq uint64
}

// Cache is a message cache keyed by message ID
type Cache struct {
	mu          sync.RWMutex
	resources   ResourceType
	maxMessages int
	messages    map[string]Entry
	order       *deque.Deque[orderKey]
	seq         uint64
}

// New creates a cache retaining the configured resource types
func New(config Config) *Cache {
	return &Cache{
		resources:   config.Resources,
		maxMessages: config.MaxMessages,
		messages:    make(map[string]Entry),
		order:       deque.New[orderKey](),
	}
}

// Update applies a gateway event. Events outside the resource filter are ignored.
func (c *Cache) Update(event interface{}) {
	if !c.resources.Has(ResourceMessage) {
		return
	}

	switch e := event.(type) {
	case *discordgo.MessageCreate:
		if e.Message != nil {
			c.put(e.Message)
		}
	case *discordgo.MessageUpdate:
		if e.Message != nil {
			c.edit(e.Message)
		}
	case *discordgo.MessageDelete:
		if e.Message != nil {
			c.remove(e.ID)
		}
	case *discordgo.MessageDeleteBulk:
		c.remove(e.Messages...)
	}
}

// Get returns the cached message with the given ID, if any
func (c *Cache) Get(id string) mo.Option[Entry] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.messages[id]
	if !ok {
		return mo.None[Entry]()
	}
	return mo.Some(entry)
}

// Len returns the number of cached messages
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

func (c *Cache) put(m *discordgo.Message) {
	if m.ID == "" {
		return
	}

	entry := Entry{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		EditedAt:  m.EditedTimestamp,
	}
	if m.Author != nil {
		entry.AuthorID = m.Author.ID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(entry)
}

func (c *Cache) edit(m *discordgo.Message) {
	if m.ID == "" {
		return
	}

	c.mu.Lock()
	existing, ok := c.messages[m.ID]
	if ok {
		// Partial update: only fields the gateway sent are replaced
		if m.Content != "" {
			existing.Content = m.Content
		}
		if m.EditedTimestamp != nil {
			existing.EditedAt = m.EditedTimestamp
		}
		c.messages[m.ID] = existing
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.put(m)
}

// store inserts or replaces entry; c.mu must be held
func (c *Cache) store(entry Entry) {
	if existing, ok := c.messages[entry.ID]; ok {
		entry.seq = existing.seq
		c.messages[entry.ID] = entry
		return
	}

	c.seq++
	entry.seq = c.seq
	c.messages[entry.ID] = entry
	if c.maxMessages <= 0 {
		return
	}

	c.order.PushBack(orderKey{id: entry.ID, seq: entry.seq})
	for len(c.messages) > c.maxMessages && c.order.Len() > 0 {
		oldest := c.order.PopFront()
		// Keys of deleted or re-inserted messages are stale; skip them
		if e, ok := c.messages[oldest.id]; ok && e.seq == oldest.seq {
			delete(c.messages, oldest.id)
		}
	}
	if c.order.Len() > 2*c.maxMessages {
		c.compact()
	}
}

// compact drops stale order keys left behind by deletes; c.mu must be held
func (c *Cache) compact() {
	live := deque.New[orderKey]()
	for c.order.Len() > 0 {
		key := c.order.PopFront()
		if e, ok := c.messages[key.id]; ok && e.seq == key.seq {
			live.PushBack(key)
		}
	}
	c.order = live
}

func (c *Cache) remove(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.messages, id)
	}
}
