// Package docs holds the swagger document served at /swagger/*any.
//
// It mirrors the swag annotations in cmd/main.go and internal/api. After
// changing an annotation, regenerate it with `go generate ./cmd` and review the
// diff.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/bocspot"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/quotes": {
            "get": {
                "description": "Returns the quotes in the log sorted by local time, optionally filtered by published date",
                "produces": ["application/json"],
                "tags": ["quotes"],
                "summary": "List recorded quotes",
                "parameters": [
                    {"type": "string", "example": "2024/03/01", "description": "First published date, YYYY/MM/DD", "name": "from", "in": "query"},
                    {"type": "string", "example": "2024/03/31", "description": "Last published date, YYYY/MM/DD", "name": "to", "in": "query"},
                    {"type": "integer", "example": 30, "description": "Keep only the most recent N quotes", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuotesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/quotes/chart.png": {
            "get": {
                "description": "Renders the per-unit rate over time as a PNG",
                "produces": ["image/png"],
                "tags": ["quotes"],
                "summary": "Rate chart",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/quotes/fetch": {
            "post": {
                "description": "Downloads the rates page once and appends the quote unless its published date is already recorded",
                "produces": ["application/json"],
                "tags": ["quotes"],
                "summary": "Fetch and record today's quote",
                "parameters": [
                    {"type": "boolean", "description": "Append even when the date is already recorded", "name": "force", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FetchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/quotes/latest": {
            "get": {
                "description": "Returns the most recent quote in the log",
                "produces": ["application/json"],
                "tags": ["quotes"],
                "summary": "Latest recorded quote",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuoteResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Ready when the data directory exists and the Postgres mirror (if enabled) answers",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "not found: data file boc_eur_spot.txt (run fetch first)"},
                "message": {"type": "string", "example": "no quotes recorded"},
                "timestamp": {"type": "string", "example": "2024-03-15T10:31:02Z"}
            }
        },
        "dto.FetchResponse": {
            "type": "object",
            "properties": {
                "quote": {"$ref": "#/definitions/dto.QuoteResponse"},
                "written": {"type": "boolean", "example": true}
            }
        },
        "dto.QuoteResponse": {
            "type": "object",
            "properties": {
                "local_time": {"type": "string", "example": "2024-03-15T10:31:02"},
                "rate_per_1": {"type": "string", "example": "7.825000"},
                "rate_per_100": {"type": "string", "example": "782.5000"},
                "source_date": {"type": "string", "example": "2024/03/15"},
                "source_time": {"type": "string", "example": "10:30:00"}
            }
        },
        "dto.QuotesResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 1},
                "quotes": {"type": "array", "items": {"$ref": "#/definitions/dto.QuoteResponse"}}
            }
        }
    },
    "tags": [
        {"description": "Recorded spot selling quotes", "name": "quotes"},
        {"description": "Liveness and readiness probes", "name": "health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "bocspot API",
	Description:      "Daily BOC EUR spot selling rate recorder.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
