package oracle

// Exported for tests.
var (
	ValidateBatchResponse  = validateBatchResponse
	ParseStructureResponse = parseStructureResponse
)
