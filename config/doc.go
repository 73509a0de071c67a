// Package config loads the construction configuration for a dialogform
// setup: the per-field retry budget, the completion-call budget, the model
// provider and logging options.
//
// Sources are merged with the priority: environment variables (DIALOGFORM_
// prefix) > JSON config file > defaults. The merged result is validated with
// struct tags before use, so malformed configuration fails fast at
// construction time like malformed schemas do.
package config
