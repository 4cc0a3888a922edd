package setup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"boca-cli/internal/access"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/titanous/json5"
)

// Violation is one field that does not match a method's shape.
type Violation struct {
	Field   string
	Message string
}

// SchemaError is returned when a configuration does not match the shape the
// method declares.
type SchemaError struct {
	Method     access.Method
	Violations []Violation
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	if e.Method == "" {
		return "invalid setup: " + strings.Join(parts, "; ")
	}
	return fmt.Sprintf("invalid setup for %s: %s", e.Method, strings.Join(parts, "; "))
}

// Fields lists the violated fields.
func (e *SchemaError) Fields() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Field
	}
	return out
}

type compiledShape struct {
	shape    shape
	envelope *jsonschema.Schema
	element  *jsonschema.Schema
}

// Validator checks raw configurations against per-method shapes. It is safe
// for concurrent use once built.
type Validator struct {
	compiled map[access.Method]compiledShape
}

// NewValidator compiles the shape of every method in the method table.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	err := compiler.AddResource(baseSchemaUrl, strings.NewReader(baseSchema))
	if err != nil {
		return nil, fmt.Errorf("add base schema: %w", err)
	}

	methods := access.All()
	for _, m := range methods {
		s, ok := shapes[m]
		if !ok {
			return nil, fmt.Errorf("method %s has no declared shape", m)
		}
		doc, err := json.Marshal(s.document())
		if err != nil {
			return nil, err
		}
		err = compiler.AddResource(methodSchemaUrl(m), bytes.NewReader(doc))
		if err != nil {
			return nil, fmt.Errorf("add schema of %s: %w", m, err)
		}
	}

	v := &Validator{compiled: map[access.Method]compiledShape{}}
	for _, m := range methods {
		s := shapes[m]
		envelope, err := compiler.Compile(methodSchemaUrl(m))
		if err != nil {
			return nil, fmt.Errorf("compile schema of %s: %w", m, err)
		}
		c := compiledShape{shape: s, envelope: envelope}
		if s.bulk {
			c.element, err = compiler.Compile(baseSchemaUrl + "#/$defs/" + s.def)
			if err != nil {
				return nil, fmt.Errorf("compile element schema of %s: %w", m, err)
			}
		}
		v.compiled[m] = c
	}
	return v, nil
}

func methodSchemaUrl(m access.Method) string {
	return fmt.Sprintf("boca://setup/%s.json", m)
}

// Decode parses a JSON or JSON5 document into its generic form.
func Decode(data []byte) (any, error) {
	var out any
	err := json5.Unmarshal(data, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// normalize turns any value into the generic form encoding/json produces,
// it also deep copies raw so validation never touches the caller's value.
func normalize(raw any) (any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var out any
	err = json.Unmarshal(data, &out)
	return out, err
}

// Validate checks raw against the shape of method and returns the typed
// configuration. Invalid input fails with *SchemaError.
func (v *Validator) Validate(raw any, method access.Method) (*Setup, error) {
	c, ok := v.compiled[method]
	if !ok {
		return nil, fmt.Errorf("unknown method %q", method)
	}

	doc, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize setup: %w", err)
	}

	err = c.envelope.Validate(doc)
	if err != nil {
		return nil, schemaError(method, "", err)
	}

	if c.shape.bulk {
		elements, _ := doc.(map[string]any)[c.shape.resource].([]any)
		for i, element := range elements {
			err = c.element.Validate(element)
			if err != nil {
				return nil, schemaError(method, fmt.Sprintf("%s.%d", c.shape.resource, i), err)
			}
		}
	}

	// only the keys the method declared make it into the setup
	object := doc.(map[string]any)
	narrowed := map[string]any{
		"config": object["config"],
		"login":  object["login"],
	}
	if c.shape.resource != "" {
		narrowed[c.shape.resource] = object[c.shape.resource]
	}
	data, err := json.Marshal(narrowed)
	if err != nil {
		return nil, err
	}
	var out Setup
	err = json.Unmarshal(data, &out)
	if err != nil {
		return nil, &SchemaError{
			Method:     method,
			Violations: []Violation{{Field: "(root)", Message: err.Error()}},
		}
	}
	return &out, nil
}

func schemaError(method access.Method, prefix string, err error) error {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}

	var violations []Violation
	collectViolations(validationErr, prefix, &violations)
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Field < violations[j].Field
	})
	return &SchemaError{Method: method, Violations: dedupe(violations)}
}

var quotedName = regexp.MustCompile(`'([^']+)'`)

func collectViolations(err *jsonschema.ValidationError, prefix string, out *[]Violation) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			collectViolations(cause, prefix, out)
		}
		return
	}

	field := fieldName(prefix, err.InstanceLocation)
	if strings.HasPrefix(err.Message, "missing properties") {
		for _, match := range quotedName.FindAllStringSubmatch(err.Message, -1) {
			*out = append(*out, Violation{
				Field:   joinField(field, match[1]),
				Message: "missing field",
			})
		}
		return
	}
	if strings.HasPrefix(err.Message, "additionalProperties") {
		for _, match := range quotedName.FindAllStringSubmatch(err.Message, -1) {
			*out = append(*out, Violation{
				Field:   joinField(field, match[1]),
				Message: "unknown field",
			})
		}
		return
	}
	*out = append(*out, Violation{Field: field, Message: err.Message})
}

func dedupe(violations []Violation) []Violation {
	seen := map[Violation]bool{}
	out := violations[:0]
	for _, v := range violations {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// fieldName turns a json pointer like /login/password into login.password.
func fieldName(prefix, pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	var parts []string
	if prefix != "" {
		parts = append(parts, prefix)
	}
	if pointer != "" {
		for _, p := range strings.Split(pointer, "/") {
			p = strings.ReplaceAll(p, "~1", "/")
			p = strings.ReplaceAll(p, "~0", "~")
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "(root)"
	}
	return strings.Join(parts, ".")
}

func joinField(parent, child string) string {
	if parent == "(root)" {
		return child
	}
	return parent + "." + child
}
