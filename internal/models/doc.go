// Package models defines the core domain models for the groupbuy service.
//
// # Models
//
//   - User: registered account; the Admin flag grants global privileges
//   - Groupbuy: a coordinated group purchase with managers, members,
//     a lifecycle status, a per-field visibility map and an updates log
//   - Item: a purchasable entry inside one groupbuy
//   - Order: the per-(groupbuy, user) aggregate of requests plus the
//     derived summary and monetary totals
//   - Request: one submitted set of (item, quantity) lines on an order
//   - Message: in-groupbuy mail between managers and members
//
// # Design Principles
//
// 1. **Plain data**: models carry no behavior beyond small constructors
// and money conversion; the business rules live in internal/groupbuy
//
// 2. **Avoid circular references**: relationships are ID strings, never
// pointers between aggregates
//
// 3. **Money in minor units**: all monetary fields are integer cents
// (Cents); decimal representation exists only at the API boundary
//
// 4. **Visibility as data**: the visibility map is stored as plain
// strings; interpretation (defaults, fail-closed lookup) belongs to the
// policy in internal/groupbuy
package models
