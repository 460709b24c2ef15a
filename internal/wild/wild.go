// Package wild decodes the wild encounter tables of each map.
package wild

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/richardwooding/pokerom/internal/addresses"
	"github.com/richardwooding/pokerom/internal/pokedex"
	"github.com/richardwooding/pokerom/internal/rom"
)

// SlotCount is the number of encounter slots of a table.
const SlotCount = 10

// probabilityTotal is the sum of all slot probabilities.
const probabilityTotal = 0xff

// ErrProbabilityTotal indicates merged probabilities not adding up to 0xff.
var ErrProbabilityTotal = errors.New("encounter probabilities do not add up")

// Slot is one encounter slot.
type Slot struct {
	Level   uint8
	Species uint8 // ROM id
}

// Decode implements rom.Record.
func (s *Slot) Decode(r *rom.Reader) {
	s.Level = r.ReadU8()
	s.Species = r.ReadU8()
}

// Size implements rom.Record.
func (*Slot) Size() int { return 2 }

// Probability is a cumulative slot threshold.
type Probability struct {
	Threshold uint8
	Slot      uint8 // slot index times 2
}

// Decode implements rom.Record.
func (p *Probability) Decode(r *rom.Reader) {
	p.Threshold = r.ReadU8()
	p.Slot = r.ReadU8()
}

// Size implements rom.Record.
func (*Probability) Size() int { return 2 }

// Encounter is a species and level with its chance out of 255.
type Encounter struct {
	DexID uint8 `json:"dex_id"`
	Level uint8 `json:"level"`
	Proba uint8 `json:"proba"`
}

// Table is the encounter table of one terrain.
type Table struct {
	Rate       uint8       `json:"rate"`
	Encounters []Encounter `json:"pokemons"`
}

// Encounters holds the grass and water tables of a map. Either may be nil.
type Encounters struct {
	Grass *Table `json:"grass"`
	Water *Table `json:"water"`
}

// Loader reads encounter tables. The slot probabilities are shared by every
// table and read once.
type Loader struct {
	data   []byte
	probas [SlotCount]uint8
}

// NewLoader reads the slot probabilities.
func NewLoader(data []byte) (*Loader, error) {
	thresholds, err := rom.NewTable[Probability](data, addresses.WildProbabilities).Take(SlotCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read encounter probabilities: %w", err)
	}
	l := &Loader{data: data}
	var prev uint8
	for i, t := range thresholds {
		l.probas[i] = t.Threshold - prev
		prev = t.Threshold
	}
	return l, nil
}

// Probabilities returns the chance of each slot out of 255.
func (l *Loader) Probabilities() [SlotCount]uint8 {
	return l.probas
}

// Load returns the encounters of a map.
func (l *Loader) Load(mapID uint8) (*Encounters, error) {
	ptr, err := rom.NewTable[rom.U16](l.data, addresses.MapWildTables).EntryAt(int(mapID))
	if err != nil {
		return nil, err
	}
	r := rom.NewReader(l.data, rom.NewAddr(addresses.MapWildTables.Bank, uint16(ptr)))

	grass, err := l.readTable(r)
	if err != nil {
		return nil, fmt.Errorf("grass encounters: %w", err)
	}
	water, err := l.readTable(r)
	if err != nil {
		return nil, fmt.Errorf("water encounters: %w", err)
	}
	return &Encounters{Grass: grass, Water: water}, nil
}

// readTable reads a rate byte followed by the slots when the rate is not 0.
func (l *Loader) readTable(r *rom.Reader) (*Table, error) {
	rate := r.ReadU8()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if rate == 0 {
		return nil, nil
	}

	encounters := make([]Encounter, 0, SlotCount)
	for i := range SlotCount {
		s := rom.ReadRecord[Slot](r)
		if err := r.Err(); err != nil {
			return nil, err
		}
		dexID, err := pokedex.RomToDex(l.data, s.Species)
		if err != nil {
			return nil, err
		}
		encounters = append(encounters, Encounter{DexID: dexID, Level: s.Level, Proba: l.probas[i]})
	}

	merged, err := Merge(encounters)
	if err != nil {
		return nil, err
	}
	return &Table{Rate: rate, Encounters: merged}, nil
}

// Merge combines entries of identical species and level by summing their
// probabilities, then sorts by probability, species and level, highest
// first. The merged probabilities of a non-empty list must add up to 0xff.
func Merge(encounters []Encounter) ([]Encounter, error) {
	type key struct{ dexID, level uint8 }
	index := make(map[key]int, len(encounters))
	var merged []Encounter
	for _, e := range encounters {
		k := key{e.DexID, e.Level}
		if i, ok := index[k]; ok {
			merged[i].Proba += e.Proba
			continue
		}
		index[k] = len(merged)
		merged = append(merged, e)
	}

	slices.SortFunc(merged, func(a, b Encounter) int {
		return cmp.Or(
			cmp.Compare(b.Proba, a.Proba),
			cmp.Compare(b.DexID, a.DexID),
			cmp.Compare(b.Level, a.Level),
		)
	})

	if len(merged) == 0 {
		return merged, nil
	}
	// Merging preserves the total; summing the input avoids uint8 wrap.
	total := 0
	for _, e := range encounters {
		total += int(e.Proba)
	}
	if total != probabilityTotal {
		return nil, fmt.Errorf("%w: %d", ErrProbabilityTotal, total)
	}
	return merged, nil
}
