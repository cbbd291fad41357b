package surreal

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
)

// Statement result offsets within a response. Selects are sent behind a USE
// prefix whose result comes first; creates are sent alone.
const (
	createResultIndex = 0
	selectResultIndex = 1
)

// decodeStatement checks the response envelope and returns the "result" of
// the statement at index. Every statement in the batch must report OK.
func decodeStatement(body []byte, index int) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, agenterr.New(agenterr.CodeParse, "store response is not valid JSON: %s", truncate(string(body), 200))
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return gjson.Result{}, agenterr.New(agenterr.CodeParse, "store response is not a JSON array")
	}

	statements := root.Array()
	for i, stmt := range statements {
		if status := stmt.Get("status").String(); status != "OK" {
			detail := stmt.Get("result").String()
			if detail == "" {
				detail = stmt.Get("detail").String()
			}
			return gjson.Result{}, agenterr.New(agenterr.CodeQueryFailed, "statement %d returned status %q: %s", i, status, detail)
		}
	}

	if len(statements) <= index {
		return gjson.Result{}, agenterr.New(agenterr.CodeInsufficientResults,
			"store returned %d statement results, need at least %d", len(statements), index+1)
	}

	result := statements[index].Get("result")
	if !result.Exists() {
		return gjson.Result{}, agenterr.New(agenterr.CodeMissingResult, "statement %d has no result", index)
	}
	return result, nil
}

// decodeRecords decodes the record array at index. A null result is an
// empty slice.
func decodeRecords[T any](body []byte, index int) ([]T, error) {
	result, err := decodeStatement(body, index)
	if err != nil {
		return nil, err
	}
	if result.Type == gjson.Null {
		return []T{}, nil
	}
	if !result.IsArray() {
		return nil, agenterr.New(agenterr.CodeUnexpectedResult, "statement %d result is %s, want array", index, result.Type)
	}

	records := []T{}
	if err := json.Unmarshal([]byte(result.Raw), &records); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeDeserialize, err, "failed to decode records")
	}
	return records, nil
}
