// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The root package holds the deck and card management services; focused
// subpackages cover authentication (auth), the study session orchestration
// (study_session) and the XP accumulator (gamification).
//
// Services receive their dependencies through constructor injection and
// translate store-level errors into application-level sentinel errors that
// the API layer maps to HTTP status codes.
package service
