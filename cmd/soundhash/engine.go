package main

import (
	"soundhash/engine"
	"soundhash/store"
)

// buildEngine constructs the default engine configuration the CLI drives
// end to end: single-resolution extraction, LSH disabled (the index is
// rebuilt in memory from the store at match time instead of persisted),
// batch driver enabled for the index command's per-segment streaming
// extraction.
func buildEngine() (*engine.Engine, error) {
	cfg := engine.DefaultConfig()
	cfg.UseBatch = true
	return engine.New(cfg)
}

func openStore() (*store.SQLiteStore, error) {
	return store.OpenSQLiteStore(dbPath)
}
