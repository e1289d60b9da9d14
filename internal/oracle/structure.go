package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// parseStructureResponse decodes a structure-fetch response. Scenario names
// must keep the response's own key order, which encoding/json maps discard,
// so the categories object is walked token by token instead.
func parseStructureResponse(raw []byte) (*Structure, error) {
	var envelope struct {
		Success bool            `json:"success"`
		Error   string          `json:"error,omitempty"`
		Data    json.RawMessage `json:"data"`
	}

	err := json.Unmarshal(raw, &envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if !envelope.Success {
		return nil, fmt.Errorf("%w: %s", ErrOracleFailure, envelope.Error)
	}

	var data struct {
		Categories json.RawMessage `json:"categories"`
		Ranks      []Rank          `json:"ranks"`
	}

	dataErr := json.Unmarshal(envelope.Data, &data)
	if dataErr != nil {
		return nil, fmt.Errorf("%w: decode data: %w", ErrInvalidResponse, dataErr)
	}

	scenarios, scenarioErr := scenarioOrder(data.Categories)
	if scenarioErr != nil {
		return nil, scenarioErr
	}

	return &Structure{Scenarios: scenarios, Ranks: data.Ranks}, nil
}

// scenarioOrder walks the categories object in document order and collects
// every scenario name under every category, preserving positions.
func scenarioOrder(categories json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(categories)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(categories))

	err := expectDelim(dec, '{')
	if err != nil {
		return nil, err
	}

	var scenarios []string

	for dec.More() {
		// Category name.
		_, keyErr := dec.Token()
		if keyErr != nil {
			return nil, fmt.Errorf("%w: categories: %w", ErrInvalidResponse, keyErr)
		}

		names, catErr := categoryScenarios(dec)
		if catErr != nil {
			return nil, catErr
		}

		scenarios = append(scenarios, names...)
	}

	return scenarios, nil
}

// categoryScenarios decodes one category value and returns its scenario
// names in document order.
func categoryScenarios(dec *json.Decoder) ([]string, error) {
	err := expectDelim(dec, '{')
	if err != nil {
		return nil, err
	}

	var names []string

	depth := 1

	for depth > 0 {
		token, tokenErr := dec.Token()
		if tokenErr != nil {
			return nil, fmt.Errorf("%w: category: %w", ErrInvalidResponse, tokenErr)
		}

		switch value := token.(type) {
		case json.Delim:
			if value == '{' || value == '[' {
				depth++
			} else {
				depth--
			}
		case string:
			if depth == 1 && value == "scenarios" {
				scenarioNames, scenErr := objectKeys(dec)
				if scenErr != nil {
					return nil, scenErr
				}

				names = append(names, scenarioNames...)
			} else if depth == 1 {
				skipErr := skipValue(dec)
				if skipErr != nil {
					return nil, skipErr
				}
			}
		}
	}

	return names, nil
}

// objectKeys decodes an object, returning its keys in order and discarding
// the values.
func objectKeys(dec *json.Decoder) ([]string, error) {
	err := expectDelim(dec, '{')
	if err != nil {
		return nil, err
	}

	var keys []string

	for dec.More() {
		token, tokenErr := dec.Token()
		if tokenErr != nil {
			return nil, fmt.Errorf("%w: scenarios: %w", ErrInvalidResponse, tokenErr)
		}

		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("%w: scenarios: non-string key", ErrInvalidResponse)
		}

		keys = append(keys, key)

		skipErr := skipValue(dec)
		if skipErr != nil {
			return nil, skipErr
		}
	}

	// Closing brace.
	_, closeErr := dec.Token()
	if closeErr != nil {
		return nil, fmt.Errorf("%w: scenarios: %w", ErrInvalidResponse, closeErr)
	}

	return keys, nil
}

// skipValue consumes one complete JSON value from the decoder.
func skipValue(dec *json.Decoder) error {
	var discard json.RawMessage

	err := dec.Decode(&discard)
	if err != nil {
		return fmt.Errorf("%w: skip value: %w", ErrInvalidResponse, err)
	}

	return nil
}

// expectDelim consumes one token and checks it is the given delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	token, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	delim, ok := token.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrInvalidResponse, want, token)
	}

	return nil
}
