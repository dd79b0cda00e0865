// Package docs registers the OpenAPI document served at /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go
package docs

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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}}}
            }
        },
        "/v1/claims": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["claims"],
                "summary": "List my claims",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "enum": ["asc", "desc"], "name": "order", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listClaimsResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["claims"],
                "summary": "Submit a claim",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"type": "string", "name": "hours_worked", "in": "formData", "required": true},
                    {"type": "file", "name": "evidence", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.claimResponse"}},
                    "200": {"description": "Replay of an earlier submission", "schema": {"$ref": "#/definitions/handler.claimResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/claims/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["claims"],
                "summary": "Get a claim",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.claimResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["claims"],
                "summary": "Correct and resubmit a claim returned for fixes",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "hours_worked", "in": "formData", "required": true},
                    {"type": "file", "name": "evidence", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.claimResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/claims/{id}/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["claims"],
                "summary": "Audit trail of a claim",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.claimEventResponse"}}}}
            }
        },
        "/v1/claims/{id}/evidence": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["claims"],
                "summary": "Download claim evidence",
                "produces": ["application/octet-stream"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/v1/coordinator/claims": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["review"],
                "summary": "Claims awaiting this reviewer, oldest first",
                "parameters": [{"type": "string", "name": "claimant", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listClaimsResponse"}}}
            }
        },
        "/v1/coordinator/claims/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["review"],
                "summary": "Approve a claim at this reviewer's stage",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.claimResponse"}}}
            }
        },
        "/v1/coordinator/claims/{id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["review"],
                "summary": "Return a claim to the claimant for fixes",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/handler.rejectRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.claimResponse"}}}
            }
        },
        "/v1/manager/claims": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["review"],
                "summary": "Claims awaiting this reviewer, oldest first",
                "parameters": [{"type": "string", "name": "claimant", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listClaimsResponse"}}}
            }
        },
        "/v1/manager/claims/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["review"],
                "summary": "Approve a claim at this reviewer's stage",
                "description": "Manager approval also marks the claim paid and issues a payment reference.",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.claimResponse"}}}
            }
        },
        "/v1/manager/claims/{id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["review"],
                "summary": "Return a claim to the claimant for fixes",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/handler.rejectRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.claimResponse"}}}
            }
        }
    },
    "definitions": {
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "role": {"type": "string", "enum": ["lecturer", "coordinator", "manager", "hr"]},
                "hourly_rate": {"type": "string", "example": "350.00"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"type": "object"}}
        },
        "handler.rejectRequest": {
            "type": "object",
            "properties": {"reason": {"type": "string", "maxLength": 500}}
        },
        "handler.evidenceResponse": {
            "type": "object",
            "properties": {"original_name": {"type": "string"}, "size_bytes": {"type": "integer"}, "download": {"type": "string"}}
        },
        "handler.historyItemResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "actor": {"type": "string"}, "note": {"type": "string"}, "timestamp": {"type": "string"}}
        },
        "handler.claimResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "claimant_id": {"type": "string"},
                "claimant_name": {"type": "string"},
                "hours_worked": {"type": "string"},
                "rate": {"type": "string"},
                "amount": {"type": "string"},
                "status": {"type": "string", "enum": ["Pending", "Coordinator Approved", "Manager Approved", "Needs Fix"]},
                "payment_status": {"type": "string", "enum": ["Unpaid", "Paid"]},
                "review_note": {"type": "string"},
                "reviewed_by": {"type": "string"},
                "reviewed_at": {"type": "string"},
                "payment_reference": {"type": "string"},
                "paid_at": {"type": "string"},
                "evidence": {"$ref": "#/definitions/handler.evidenceResponse"},
                "status_history": {"type": "array", "items": {"$ref": "#/definitions/handler.historyItemResponse"}},
                "allowed_actions": {"type": "array", "items": {"type": "string"}},
                "version": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "_links": {"type": "object", "properties": {"self": {"type": "string"}, "events": {"type": "string"}}}
            }
        },
        "handler.paginationMeta": {
            "type": "object",
            "properties": {"page": {"type": "integer"}, "limit": {"type": "integer"}, "total": {"type": "integer"}, "total_pages": {"type": "integer"}}
        },
        "handler.listClaimsResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handler.claimResponse"}},
                "pagination": {"$ref": "#/definitions/handler.paginationMeta"}
            }
        },
        "handler.claimEventResponse": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "actor": {"type": "string"},
                "actor_id": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "note": {"type": "string"},
                "occurred_at": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Lecturer Claims API",
	Description:      "Monthly claim submission with coordinator and manager approval.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
