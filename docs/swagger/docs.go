// Package swagger registers the OpenAPI description of the cover console.
// Regenerate with: swag init -g cmd/server/server.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/projects": {
            "get": {"tags": ["projects"], "summary": "List projects", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["projects"], "summary": "Create project", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/projects/{id}": {
            "get": {"tags": ["projects"], "summary": "Get project", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["projects"], "summary": "Update project", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["projects"], "summary": "Delete project", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/projects/{id}/reindex": {
            "post": {"tags": ["projects"], "summary": "Import existing images", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/collections": {
            "get": {"tags": ["collections"], "summary": "List collections", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["collections"], "summary": "Create collection", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/collections/import-csv": {
            "post": {"tags": ["collections"], "summary": "Import collections from CSV", "consumes": ["multipart/form-data"], "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/collections/{id}": {
            "get": {"tags": ["collections"], "summary": "Get collection", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["collections"], "summary": "Update collection", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["collections"], "summary": "Delete collection", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/generate-batch": {
            "post": {"tags": ["generations"], "summary": "Start generations", "consumes": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/scheduler_callback/{generation_id}": {
            "post": {"tags": ["generations"], "summary": "Scheduler completion callback", "consumes": ["multipart/form-data", "application/json"], "parameters": [{"type": "string", "name": "generation_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "415": {"description": "Unsupported Media Type"}}}
        },
        "/api/grid-data": {
            "get": {"tags": ["grid"], "summary": "Grid page", "parameters": [
                {"type": "string", "name": "visible_project_ids", "in": "query"},
                {"type": "string", "name": "search", "in": "query"},
                {"type": "string", "name": "type", "in": "query"},
                {"type": "string", "name": "advanced", "in": "query"},
                {"type": "string", "name": "sort", "in": "query"},
                {"type": "string", "name": "order", "in": "query"},
                {"type": "string", "name": "generation_status_filter", "in": "query"},
                {"type": "integer", "name": "page", "in": "query"},
                {"type": "integer", "name": "per_page", "in": "query"}
            ], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/selection-data": {
            "get": {"tags": ["grid"], "summary": "Cover picker data", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/selection-shell": {
            "get": {"tags": ["grid"], "summary": "Cover picker header", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/selection-attempts": {
            "get": {"tags": ["grid"], "summary": "Attempts of one cell", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/select-cover": {
            "post": {"tags": ["selection"], "summary": "Select cover", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/generated_files/{file_id}": {
            "get": {"tags": ["files"], "summary": "Download generated file", "parameters": [{"type": "integer", "name": "file_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/events": {
            "get": {"tags": ["events"], "summary": "Live updates", "produces": ["text/event-stream"], "responses": {"200": {"description": "event stream"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cover Console API",
	Description:      "Cover art production console: projects, collections, generations and cover selection.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
