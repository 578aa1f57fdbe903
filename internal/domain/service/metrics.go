package service

// Metrics records operational measurements from analysis operations.
type Metrics interface {
	RecordReport(source, symbol string)
	RecordError(kind string)
	RecordLastClose(symbol string, close float64)
	RecordLatency(operation string, seconds float64)
}
