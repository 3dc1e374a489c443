// Package model abstracts the language model providers used by model-backed
// analyzers. The Model interface is deliberately minimal: a single
// non-streaming completion call, because an analyzer needs one structured
// verdict per evidence reference, not a conversation. Provider adapters live
// in the openai and anthropic subpackages.
package model
