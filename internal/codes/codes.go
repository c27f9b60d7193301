// Package codes issues the human-readable reference codes that sit next
// to every row id: INV-000123, TXN-000456 and so on. Codes are backed by
// database sequences so concurrent transactions never collide and codes
// are strictly increasing per entity.
package codes

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

type Prefix string

const (
	User         Prefix = "USR"
	Organization Prefix = "ORG"
	Property     Prefix = "PROP"
	Investment   Prefix = "INV"
	Transaction  Prefix = "TXN"
	Reward       Prefix = "RWD"
)

// sequences maps each prefix to its Postgres sequence. Names are fixed
// here and interpolated directly; nextval cannot take a bind parameter
// for the sequence identifier.
var sequences = map[Prefix]string{
	User:         "user_display_seq",
	Organization: "organization_display_seq",
	Property:     "property_display_seq",
	Investment:   "investment_display_seq",
	Transaction:  "transaction_display_seq",
	Reward:       "reward_display_seq",
}

// Sequences lists every backing sequence, for migration.
func Sequences() []string {
	names := make([]string, 0, len(sequences))
	for _, s := range sequences {
		names = append(names, s)
	}
	return names
}

// Format renders a code from a raw sequence value.
func Format(p Prefix, n uint64) string {
	return fmt.Sprintf("%s-%06d", p, n)
}

// Generator allocates the next code for an entity, inside the caller's
// transaction so an aborted settlement burns the sequence value but
// never reuses it.
type Generator interface {
	Next(tx *gorm.DB, p Prefix) (string, error)
}

// SequenceGenerator is the Postgres implementation.
type SequenceGenerator struct{}

func (SequenceGenerator) Next(tx *gorm.DB, p Prefix) (string, error) {
	seq, ok := sequences[p]
	if !ok {
		return "", fmt.Errorf("codes: unknown prefix %q", p)
	}
	var n uint64
	if err := tx.Raw("SELECT nextval('" + seq + "')").Scan(&n).Error; err != nil {
		return "", fmt.Errorf("codes: nextval %s: %w", seq, err)
	}
	return Format(p, n), nil
}

// MemoryGenerator is a process-local generator for tests and for
// databases without sequences.
type MemoryGenerator struct {
	mu       sync.Mutex
	counters map[Prefix]uint64
}

func NewMemory() *MemoryGenerator {
	return &MemoryGenerator{counters: make(map[Prefix]uint64)}
}

func (g *MemoryGenerator) Next(_ *gorm.DB, p Prefix) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters[p]++
	return Format(p, g.counters[p]), nil
}
