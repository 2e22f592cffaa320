package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Symbol classification tags as reported by the reference-data lookup.
const (
	TypeStock   = "Stock"
	TypeETF     = "ETF"
	TypeUnknown = "Unknown"
)

// TrackedSymbol is a ticker under watch plus its classification.
type TrackedSymbol struct {
	Symbol string
	Type   string
}

// SymbolStore persists the tracked-symbol list as a flat JSON mapping
// SYMBOL -> type. Mutated only by explicit add/remove/revalidate commands;
// no automatic expiry. Single writer process only.
type SymbolStore struct {
	path string
}

// NewSymbolStore creates a store backed by the given file path.
func NewSymbolStore(path string) *SymbolStore {
	return &SymbolStore{path: path}
}

// Normalize upper-cases and trims a ticker symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Load reads the symbol mapping. Missing or unreadable file means no
// symbols tracked yet.
func (s *SymbolStore) Load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	symbols := map[string]string{}
	if err := json.Unmarshal(data, &symbols); err != nil {
		return map[string]string{}
	}
	return symbols
}

// List returns the tracked symbols sorted by ticker. Scheduled sweeps
// process symbols in this order.
func (s *SymbolStore) List() []TrackedSymbol {
	symbols := s.Load()
	keys := make([]string, 0, len(symbols))
	for k := range symbols {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]TrackedSymbol, 0, len(keys))
	for _, k := range keys {
		list = append(list, TrackedSymbol{Symbol: k, Type: symbols[k]})
	}
	return list
}

// Add tracks a new symbol with the given classification. Returns false if
// the symbol is already tracked.
func (s *SymbolStore) Add(symbol, symbolType string) (bool, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return false, fmt.Errorf("empty symbol")
	}
	symbols := s.Load()
	if _, ok := symbols[symbol]; ok {
		return false, nil
	}
	symbols[symbol] = symbolType
	return true, s.save(symbols)
}

// Remove stops tracking a symbol. Returns false if it was not tracked.
func (s *SymbolStore) Remove(symbol string) (bool, error) {
	symbol = Normalize(symbol)
	symbols := s.Load()
	if _, ok := symbols[symbol]; !ok {
		return false, nil
	}
	delete(symbols, symbol)
	return true, s.save(symbols)
}

// Set updates the classification of an already-tracked symbol. Used by the
// revalidate command.
func (s *SymbolStore) Set(symbol, symbolType string) error {
	symbol = Normalize(symbol)
	symbols := s.Load()
	if _, ok := symbols[symbol]; !ok {
		return fmt.Errorf("symbol %s not tracked", symbol)
	}
	symbols[symbol] = symbolType
	return s.save(symbols)
}

func (s *SymbolStore) save(symbols map[string]string) error {
	data, err := json.Marshal(symbols)
	if err != nil {
		return fmt.Errorf("encoding symbol store: %w", err)
	}
	return writeAtomic(s.path, data)
}
