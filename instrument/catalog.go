package instrument

import (
	"fmt"
	"strings"
)

// Catalog is an immutable registry of instruments plus, for each provider,
// a variation table keyed by the provider's own symbol for that
// instrument. Providers are normalized to lower case on insert (spec §6).
type Catalog struct {
	instruments map[string]Instrument
	variations  map[string]map[string]Variation // provider -> original symbol -> variation
}

// NewCatalog returns an empty Catalog, ready for Add/AddVariation.
func NewCatalog() *Catalog {
	return &Catalog{
		instruments: make(map[string]Instrument),
		variations:  make(map[string]map[string]Variation),
	}
}

// Add registers inst. The symbol must not already be present.
func (c *Catalog) Add(inst Instrument) error {
	if _, exists := c.instruments[inst.Symbol]; exists {
		return fmt.Errorf("instrument: duplicate symbol %q", inst.Symbol)
	}
	c.instruments[inst.Symbol] = inst
	return nil
}

// AddVariation registers a variation for (provider, originalSymbol). The
// pair must be unique; provider is lower-cased before storage and lookup.
func (c *Catalog) AddVariation(provider, originalSymbol string, v Variation) error {
	provider = strings.ToLower(provider)
	byProvider, ok := c.variations[provider]
	if !ok {
		byProvider = make(map[string]Variation)
		c.variations[provider] = byProvider
	}
	if _, exists := byProvider[originalSymbol]; exists {
		return fmt.Errorf("instrument: duplicate variation (%s, %s)", provider, originalSymbol)
	}
	byProvider[originalSymbol] = v
	return nil
}

// Lookup returns the instrument registered under symbol, if any.
func (c *Catalog) Lookup(symbol string) (Instrument, bool) {
	inst, ok := c.instruments[symbol]
	return inst, ok
}

// LookupVariation returns the variation registered for (provider, symbol), if any.
func (c *Catalog) LookupVariation(provider, symbol string) (Variation, bool) {
	byProvider, ok := c.variations[strings.ToLower(provider)]
	if !ok {
		return Variation{}, false
	}
	v, ok := byProvider[symbol]
	return v, ok
}

// Symbols returns every registered instrument symbol, in no particular order.
func (c *Catalog) Symbols() []string {
	out := make([]string, 0, len(c.instruments))
	for s := range c.instruments {
		out = append(out, s)
	}
	return out
}
