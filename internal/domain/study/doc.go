// Package study implements the study-session scheduler: the state machine
// that walks a learner through one pass over a deck's cards, records a
// difficulty rating per card, derives next-review metadata via the interval
// policy, and aggregates the per-session counters into a summary.
package study
