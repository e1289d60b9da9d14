package oracle

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// batchResponseSchema validates the shape of a batch-mode oracle response
// before it is trusted. A response that fails validation is treated the
// same as a transport failure for the owning batch.
const batchResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "error": {"type": "string"},
    "results": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["date", "rank", "rankName"],
        "properties": {
          "date": {"type": "string"},
          "rank": {"type": "integer"},
          "rankName": {"type": "string"},
          "details": {
            "type": "object",
            "properties": {
              "harmonicMean": {"type": "number"},
              "progressToNextRank": {"type": "number"}
            }
          }
        }
      }
    }
  }
}`

// validateBatchResponse checks raw JSON output against the response schema.
func validateBatchResponse(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(batchResponseSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if !result.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, result.Errors()[0].String())
	}

	return nil
}
