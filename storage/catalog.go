package storage

import (
	"context"
	"fmt"

	"backtest-engine/instrument"
)

// SaveCatalog upserts every instrument in cat into the instrument table.
// Variations are not written; the instrument_variation table is left as it
// is.
func SaveCatalog(ctx context.Context, db *DB, cat *instrument.Catalog) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin catalog save: %w", err)
	}
	defer tx.Rollback()

	for _, symbol := range cat.Symbols() {
		inst, _ := cat.Lookup(symbol)
		if _, err := tx.ExecContext(ctx,
			`insert into instrument (symbol, kind, tick, bpv, name) values (?, ?, ?, ?, ?)
			 on conflict(symbol) do update set kind=excluded.kind, tick=excluded.tick, bpv=excluded.bpv, name=excluded.name`,
			inst.Symbol, inst.Kind.String(), inst.Tick, inst.BPV, inst.Name,
		); err != nil {
			return fmt.Errorf("storage: save instrument %s: %w", symbol, err)
		}
	}

	return tx.Commit()
}

// LoadCatalog reads every row of the instrument and instrument_variation
// tables into a fresh Catalog.
func LoadCatalog(ctx context.Context, db *DB) (*instrument.Catalog, error) {
	cat := instrument.NewCatalog()

	rows, err := db.QueryContext(ctx, `select symbol, kind, tick, bpv, name from instrument`)
	if err != nil {
		return nil, fmt.Errorf("storage: load instruments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var symbol, kind, name string
		var tick, bpv float64
		if err := rows.Scan(&symbol, &kind, &tick, &bpv, &name); err != nil {
			return nil, fmt.Errorf("storage: scan instrument: %w", err)
		}
		var inst instrument.Instrument
		if kind == instrument.Future.String() {
			inst = instrument.NewFuture(symbol, tick, bpv, name)
		} else {
			inst = instrument.NewStock(symbol, name)
		}
		if err := cat.Add(inst); err != nil {
			return nil, fmt.Errorf("storage: add instrument %s: %w", symbol, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load instruments: %w", err)
	}

	varRows, err := db.QueryContext(ctx, `select provider, original_symbol, alt_symbol, factor, alt_tick from instrument_variation`)
	if err != nil {
		return nil, fmt.Errorf("storage: load variations: %w", err)
	}
	defer varRows.Close()

	for varRows.Next() {
		var provider, originalSymbol, altSymbol string
		var factor, altTick float64
		if err := varRows.Scan(&provider, &originalSymbol, &altSymbol, &factor, &altTick); err != nil {
			return nil, fmt.Errorf("storage: scan variation: %w", err)
		}
		v := instrument.Variation{AltSymbol: altSymbol, Factor: factor, AltTick: altTick}
		if err := cat.AddVariation(provider, originalSymbol, v); err != nil {
			return nil, fmt.Errorf("storage: add variation %s/%s: %w", provider, originalSymbol, err)
		}
	}
	if err := varRows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load variations: %w", err)
	}

	return cat, nil
}
