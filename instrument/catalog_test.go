package instrument

import "testing"

func TestCatalogAddAndLookup(t *testing.T) {
	c := NewCatalog()
	if err := c.Add(NewStock("AAPL", "Apple Inc")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	inst, ok := c.Lookup("AAPL")
	if !ok {
		t.Fatal("Lookup(AAPL) not found")
	}
	if inst.Name != "Apple Inc" {
		t.Errorf("Lookup returned %+v", inst)
	}

	if _, ok := c.Lookup("MSFT"); ok {
		t.Error("Lookup(MSFT) should not be found")
	}
}

func TestCatalogAddRejectsDuplicateSymbol(t *testing.T) {
	c := NewCatalog()
	c.Add(NewStock("AAPL", "Apple Inc"))
	if err := c.Add(NewStock("AAPL", "Apple Inc (again)")); err == nil {
		t.Error("expected an error re-adding a duplicate symbol")
	}
}

func TestCatalogVariationLookupIsProviderCaseInsensitive(t *testing.T) {
	c := NewCatalog()
	v := Variation{AltSymbol: "MES", Factor: 10, AltTick: 0.25}
	if err := c.AddVariation("Pinnacle", "ES", v); err != nil {
		t.Fatalf("AddVariation: %v", err)
	}

	got, ok := c.LookupVariation("pinnacle", "ES")
	if !ok {
		t.Fatal("expected a case-insensitive provider lookup to succeed")
	}
	if got.AltSymbol != "MES" {
		t.Errorf("got %+v", got)
	}

	if _, ok := c.LookupVariation("other", "ES"); ok {
		t.Error("lookup under an unregistered provider should fail")
	}
}

func TestCatalogAddVariationRejectsDuplicatePair(t *testing.T) {
	c := NewCatalog()
	v := Variation{AltSymbol: "MES", Factor: 10, AltTick: 0.25}
	c.AddVariation("pinnacle", "ES", v)
	if err := c.AddVariation("pinnacle", "ES", v); err == nil {
		t.Error("expected an error re-adding a duplicate (provider, symbol) pair")
	}
}

func TestCatalogSymbols(t *testing.T) {
	c := NewCatalog()
	c.Add(NewStock("AAPL", "Apple"))
	c.Add(NewStock("MSFT", "Microsoft"))

	symbols := c.Symbols()
	if len(symbols) != 2 {
		t.Fatalf("Symbols() = %v, want 2 entries", symbols)
	}
}
