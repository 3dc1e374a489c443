// Package analyzer defines the uniform adapter contract wrapping each
// heterogeneous evidence analysis capability, plus the concrete backends:
// model-backed analysis (LLM verdicts), a remote analysis service, and a
// managed star-catalog query. Callers never branch on backend kind; every
// adapter takes an evidence reference and returns a classification vote or
// exactly one of the two analysis failure kinds (timeout, adapter error).
package analyzer
