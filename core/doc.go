// Package core defines the shared domain model for the location consensus
// engine: participant contexts, evidence kinds, biome/quadrant labels,
// analysis votes and outcomes, consensus decisions, and the error taxonomy
// used across all components. Types here are transport-agnostic value types;
// the packages analyzer, crew, consensus and orchestrator build on them.
package core
