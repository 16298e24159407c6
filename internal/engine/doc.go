// Package engine contains the room transaction engine.
// Every player action and round trigger resolves to one operation here:
// the room is locked, its arena loaded, mutated, and persisted in full,
// or not at all.
package engine
