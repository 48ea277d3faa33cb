package store

// ErrorClassification tells [DB.withRetry] whether a failed statement may
// succeed when run again.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// ErrorClassificator classifies driver errors of one database.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
