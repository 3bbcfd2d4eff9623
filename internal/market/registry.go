// Package market holds the static table of wholesale fish market stations
// queried on the efish statistics site.
package market

import (
	"sjsage522/seafoodcrawler/pkg/errors"
)

// Kind distinguishes consumer markets from producer (landing port) markets
type Kind string

const (
	KindConsumer Kind = "consumer"
	KindProducer Kind = "producer"
)

// Entry is one market station
type Entry struct {
	Code string
	Name string
	Kind Kind
}

// Registry is an immutable, ordered code -> name table
type Registry struct {
	entries []Entry
	index   map[string]int
}

var defaultEntries = []Entry{
	// 消費地市場
	{Code: "F109", Name: "台北", Kind: KindConsumer},
	{Code: "F241", Name: "三重", Kind: KindConsumer},
	{Code: "F300", Name: "新竹", Kind: KindConsumer},
	{Code: "F330", Name: "桃園", Kind: KindConsumer},
	{Code: "F360", Name: "苗栗", Kind: KindConsumer},
	{Code: "F400", Name: "台中", Kind: KindConsumer},
	{Code: "F500", Name: "彰化", Kind: KindConsumer},
	{Code: "F513", Name: "埔心", Kind: KindConsumer},
	{Code: "F600", Name: "嘉義", Kind: KindConsumer},
	{Code: "F630", Name: "斗南", Kind: KindConsumer},
	{Code: "F722", Name: "佳里", Kind: KindConsumer},
	{Code: "F730", Name: "新營", Kind: KindConsumer},
	{Code: "F820", Name: "岡山", Kind: KindConsumer},
	// 生產地市場
	{Code: "F200", Name: "基隆", Kind: KindProducer},
	{Code: "F261", Name: "頭城", Kind: KindProducer},
	{Code: "F270", Name: "蘇澳", Kind: KindProducer},
	{Code: "F708", Name: "台南", Kind: KindProducer},
	{Code: "F709", Name: "興達港", Kind: KindProducer},
	{Code: "F800", Name: "高雄", Kind: KindProducer},
	{Code: "F826", Name: "梓官", Kind: KindProducer},
	{Code: "F880", Name: "澎湖", Kind: KindProducer},
	{Code: "F916", Name: "東港", Kind: KindProducer},
	{Code: "F936", Name: "新港", Kind: KindProducer},
	{Code: "F950", Name: "花蓮", Kind: KindProducer},
}

// Default is the registry of every market the site publishes
var Default = NewRegistry(defaultEntries)

// NewRegistry builds a registry preserving the order of entries.
// A repeated code keeps its first position and name.
func NewRegistry(entries []Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, exists := r.index[e.Code]; exists {
			continue
		}
		r.index[e.Code] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// NameFor returns the display name of code
func (r *Registry) NameFor(code string) (string, error) {
	i, ok := r.index[code]
	if !ok {
		return "", errors.NewUnknownMarket(code)
	}
	return r.entries[i].Name, nil
}

// Kind returns whether code is a consumer or producer market
func (r *Registry) Kind(code string) (Kind, error) {
	i, ok := r.index[code]
	if !ok {
		return "", errors.NewUnknownMarket(code)
	}
	return r.entries[i].Kind, nil
}

// Codes returns the market codes in registry order
func (r *Registry) Codes() []string {
	codes := make([]string, len(r.entries))
	for i, e := range r.entries {
		codes[i] = e.Code
	}
	return codes
}

// Entries returns a copy of the registry entries
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of markets
func (r *Registry) Len() int {
	return len(r.entries)
}

// Subset returns a registry restricted to codes, keeping this registry's order.
// Unknown codes fail fast.
func (r *Registry) Subset(codes []string) (*Registry, error) {
	want := make(map[string]bool, len(codes))
	for _, code := range codes {
		if _, ok := r.index[code]; !ok {
			return nil, errors.NewUnknownMarket(code)
		}
		want[code] = true
	}

	var entries []Entry
	for _, e := range r.entries {
		if want[e.Code] {
			entries = append(entries, e)
		}
	}
	return NewRegistry(entries), nil
}
