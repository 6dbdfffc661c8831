// Package models defines the core domain records for splitit.
//
// # Ledger entries
//
//   - Expense: money one user paid on behalf of several, divided into Splits
//   - Payment: money that changed hands directly between two users
//
// Expenses and Payments are append/update-only ledger entries owned by the
// whole system. Users and Groups are reference entities looked up by ID from
// every other record.
//
// # Derived records
//
//   - Balance: one counterparty's net position against a viewer, recomputed
//     fresh on every query and never persisted
//   - ActivityItem: an expense or a payment wrapped for the merged activity
//     feed; exactly one of the two payloads is set
//
// # Design principles
//
//  1. Records reference each other by ID strings, never by pointers
//  2. Monetary amounts are float64 with two-decimal currency semantics;
//     consumers apply cent-level tolerances, never exact equality
//  3. Timestamps are Unix seconds
package models
