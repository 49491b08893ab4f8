// Package service defines domain-level collaborator interfaces implemented
// by the infrastructure layer.
package service

// CategoryClassifier infers a product category from free text. It is a
// pluggable collaborator so the ingestion core stays independent of
// taxonomy rules; the pipeline only consults it when a feed record carries
// no category of its own.
type CategoryClassifier interface {
	// Classify returns one of the entity.Category* constants for the given
	// product text. Unknown text maps to entity.CategoryOther.
	Classify(productText string) string
}
