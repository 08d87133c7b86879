package server

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"todolist/internal/models"
)

const apiTitle = "To-Do List API"

// openAPIDocument generates the OpenAPI document from the route table and
// the request and response types.
func openAPIDocument(version string, routes []route) (*openapi3.T, error) {
	schemas, err := componentSchemas()
	if err != nil {
		return nil, err
	}

	paths := openapi3.NewPaths()
	for _, r := range routes {
		path := openAPIPath(r.path)
		item := paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{}
			paths.Set(path, item)
		}
		item.SetOperation(r.method, operation(r, schemas))
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       apiTitle,
			Version:     version,
			Description: "API documentation for the To-Do List service",
		},
		Servers: openapi3.Servers{{URL: "/api"}},
		Tags: openapi3.Tags{
			{Name: "Tasks", Description: "Task management"},
			{Name: "Categories", Description: "Category management"},
		},
		Paths:      paths,
		Components: &openapi3.Components{Schemas: schemas},
	}, nil
}

// componentSchemas reflects the model types into named schemas. Required
// lists follow the binding tags used by request validation.
func componentSchemas() (openapi3.Schemas, error) {
	schemas := openapi3.Schemas{}

	generate := func(name string, v any, required ...string) (*openapi3.Schema, error) {
		ref, err := openapi3gen.NewSchemaRefForValue(v, schemas)
		if err != nil {
			return nil, fmt.Errorf("generate %s schema: %w", name, err)
		}
		ref.Value.Required = append(required, bindingRequired(v)...)
		schemas[name] = &openapi3.SchemaRef{Value: ref.Value}
		return ref.Value, nil
	}

	task, err := generate("Task", models.Task{}, "id", "title", "completed")
	if err != nil {
		return nil, err
	}
	nullable(task, "description")

	createTask, err := generate("CreateTaskDTO", models.CreateTaskInput{})
	if err != nil {
		return nil, err
	}
	schemas["UpdateTaskDTO"] = &openapi3.SchemaRef{Value: partial(createTask, "description", "category_id")}

	if _, err := generate("Category", models.Category{}, "id", "machine_name", "display_name"); err != nil {
		return nil, err
	}
	createCategory, err := generate("CreateCategoryDTO", models.CreateCategoryInput{})
	if err != nil {
		return nil, err
	}
	schemas["UpdateCategoryDTO"] = &openapi3.SchemaRef{Value: partial(createCategory)}

	schemas["Error"] = &openapi3.SchemaRef{Value: openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema())}
	schemas["Message"] = &openapi3.SchemaRef{Value: openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema())}

	return schemas, nil
}

func operation(r route, schemas openapi3.Schemas) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = r.doc.id
	op.Summary = r.doc.summary
	op.Tags = []string{r.doc.tag}
	op.Responses = &openapi3.Responses{}

	if strings.Contains(r.path, ":id") {
		op.AddParameter(openapi3.NewPathParameter("id").
			WithSchema(openapi3.NewInt64Schema()).
			WithDescription("Numeric identifier of the "+strings.ToLower(strings.TrimSuffix(r.doc.tag, "s"))))
	}
	if r.doc.request != "" {
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(componentRef(r.doc.request, schemas))}
	}

	success := openapi3.NewResponse().WithDescription(http.StatusText(r.doc.status))
	switch {
	case r.doc.message:
		success.WithJSONSchemaRef(componentRef("Message", schemas))
	case r.doc.list:
		items := openapi3.NewArraySchema()
		items.Items = componentRef(r.doc.response, schemas)
		success.WithJSONSchema(items)
	case r.doc.response != "":
		success.WithJSONSchemaRef(componentRef(r.doc.response, schemas))
	}
	op.AddResponse(r.doc.status, success)

	for _, status := range r.doc.errors {
		op.AddResponse(status, openapi3.NewResponse().
			WithDescription(http.StatusText(status)).
			WithJSONSchemaRef(componentRef("Error", schemas)))
	}
	return op
}

// componentRef points at a named schema and keeps the resolved value so the
// document validates without a loader pass.
func componentRef(name string, schemas openapi3.Schemas) *openapi3.SchemaRef {
	ref := &openapi3.SchemaRef{Ref: "#/components/schemas/" + name}
	if s, ok := schemas[name]; ok {
		ref.Value = s.Value
	}
	return ref
}

// openAPIPath rewrites gin parameters (":id") into OpenAPI templates ("{id}").
func openAPIPath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

// bindingRequired lists the JSON names of fields tagged binding:"required".
func bindingRequired(v any) []string {
	t := reflect.TypeOf(v)
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !strings.Contains(f.Tag.Get("binding"), "required") {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			name = f.Name
		}
		out = append(out, name)
	}
	return out
}

// nullable marks properties as accepting null. The generator shares one
// schema per Go type, so the property gets its own copy first.
func nullable(s *openapi3.Schema, props ...string) {
	for _, name := range props {
		if p, ok := s.Properties[name]; ok && p.Value != nil {
			value := *p.Value
			value.Nullable = true
			s.Properties[name] = &openapi3.SchemaRef{Value: &value}
		}
	}
}

// partial derives an update payload schema from a create schema: nothing is
// required and the named properties accept null.
func partial(create *openapi3.Schema, nullableProps ...string) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	for name, prop := range create.Properties {
		value := *prop.Value
		out.WithProperty(name, &value)
	}
	nullable(out, nullableProps...)
	return out
}
