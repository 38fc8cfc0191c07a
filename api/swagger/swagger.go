package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Moodle Stats API",
        "description": "Weekly non-access reporting over a Moodle replica",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Panel sign-in"},
        {"name": "Catalog", "description": "Course and group pickers"},
        {"name": "Reports", "description": "Weekly non-access cohort report"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Panel sign-in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Browsable courses",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "description": "Search over shortname/fullname"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/groups": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Groups of one course",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/weekly": {
            "get": {
                "tags": ["Reports"],
                "summary": "Weekly non-access report for a course group",
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "integer", "required": true},
                    {"name": "groupId", "in": "query", "type": "integer", "required": true},
                    {"name": "from", "in": "query", "type": "string", "description": "YYYY-MM-DD"},
                    {"name": "to", "in": "query", "type": "string", "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/weekly/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the weekly report as CSV or PDF",
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "integer", "required": true},
                    {"name": "groupId", "in": "query", "type": "integer", "required": true},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/reports/weekly/never": {
            "get": {
                "tags": ["Reports"],
                "summary": "Users still without access at one week boundary",
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "integer", "required": true},
                    {"name": "groupId", "in": "query", "type": "integer", "required": true},
                    {"name": "end", "in": "query", "type": "integer", "required": true, "description": "Boundary identifier from the weekly series"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course or group not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/weekly/never/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the never-accessed user list",
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "integer", "required": true},
                    {"name": "groupId", "in": "query", "type": "integer", "required": true},
                    {"name": "end", "in": "query", "type": "integer", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
