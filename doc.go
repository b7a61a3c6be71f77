// Package navtrack tracks individual mutual-fund and ETF purchase lots:
// what was bought, for how much, and what it is worth today.
//
// The core pieces are:
//   - Holdings: one record per purchase lot, with the invested amount and
//     either the units bought or the purchase NAV (the missing one is
//     derived at insert time).
//   - Stores: pluggable persistence behind the Store interface, with a
//     remote hosted table, a local CSV mirror file, and a write-through
//     combination of both (package store).
//   - Quotes: the daily NAV list (package amfi) with a per-scheme JSON
//     fallback (package mfapi).
//   - Reconciliation: matching holdings against the quote set by scheme
//     code or name and stamping their current NAV.
//   - Valuation: deriving current value, absolute return and annualized
//     return per lot, leaving the metrics undefined rather than zero when
//     the inputs do not allow them.
//
// This package holds the domain types and logic shared by the `nvt`
// command-line tool.
package navtrack
