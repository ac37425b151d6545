package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasker-go/internal/task"
	"github.com/nibzard/tasker-go/internal/utils"
)

const schemaURL = "https://github.com/nibzard/tasker-go/tasks.schema.json"

//go:embed tasks.schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema document for the task file.
func Schema() string {
	return schemaJSON
}

// Issue is a single problem found by Check.
type Issue struct {
	Path    string // Location such as [0].status, empty for the whole file
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// CheckResult contains the outcome of Check.
type CheckResult struct {
	Valid  bool
	Tasks  int
	Issues []Issue
}

// Check validates the file at path against the task file schema and the
// task rules. Unlike Load it is strict: it reports everything Load would
// silently drop or fall back on. It returns an error only if the file
// cannot be read.
func Check(path string) (*CheckResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return CheckBytes(data)
}

// CheckBytes is Check for file contents already in memory.
func CheckBytes(data []byte) (*CheckResult, error) {
	result := &CheckResult{Valid: true, Issues: make([]Issue, 0)}

	if strings.TrimSpace(string(data)) == "" {
		result.fail("", "file is empty")
		return result, nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail("", fmt.Sprintf("invalid JSON: %v", err))
		return result, nil
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
		return result, nil
	}

	// Whitespace-only titles pass the schema; the task rules catch them.
	items, _ := doc.([]any)
	for i, item := range items {
		record, _ := item.(map[string]any)
		if _, err := task.FromMap(record); err != nil {
			result.fail(fmt.Sprintf("[%d]", i), err.Error())
			continue
		}
		result.Tasks++
	}

	return result, nil
}

func (r *CheckResult) fail(path, message string) {
	r.Valid = false
	r.Issues = append(r.Issues, Issue{Path: path, Message: message})
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add task file schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile task file schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

func appendSchemaErrors(result *CheckResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Issues = append(result.Issues, Issue{Message: err.Error()})
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *CheckResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Issues = append(result.Issues, Issue{
			Path:    utils.JSONPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
