// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose
// coupling between components in the system. Services emit XP-granting events
// (a session completed, a card or deck created) without knowing which handlers
// will process them; the gamification accumulator subscribes and converts them
// into XP deltas. This keeps the study flow free of any direct dependency on
// gamification state.
//
// The primary components are:
// - XPEvent: Represents an action that may grant experience points
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
