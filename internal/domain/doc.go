// Package domain models region enrichment records for the India map explorer.
//
// # Records
//
// A [RegionRecord] is the enrichment payload for one administrative region
// (state or union territory), keyed by the region's display name exactly as
// the map supplies it. Names are case and whitespace sensitive: "Goa" and
// "goa " are different keys.
//
// # Generation
//
// Records are produced by a text-generation model from the prompt built by
// [BuildRegionPrompt]. The model is asked for bare JSON, but outputs are
// frequently wrapped in prose or markdown fences, so [ExtractObject] recovers
// the span from the first '{' to the last '}' before parsing:
//
//	Sure! ```{"capital":"Thiruvananthapuram", ...}```
//	      ^                                     ^
//	      first '{'                    last '}'
//
// This heuristic is best-effort. A string value containing an unbalanced
// brace, or output holding two separate objects, yields a span that fails to
// parse. Every extracted object goes through a [Validator] before use.
//
// # Failure taxonomy
//
//	ErrGeneration  the model call failed (network, quota, bad request)
//	ErrExtraction  no '{...}' span in the output
//	ErrParse       span found but not valid JSON
//	ErrValidation  parsed object misses a required field
//
// Callers collapse all four into a single user-visible error; the kinds are
// kept apart for logs and metrics via [FailureKind].
package domain
