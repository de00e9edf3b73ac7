// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package apidocs registers the OpenAPI document served at /swagger/doc.json.
//
// The document is produced by swag init from the annotations in cmd/server
// and internal/api; regenerate it after changing handler comments.
package apidocs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/alphaweb/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current principal",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/auth/{kind}/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"type": "string", "enum": ["merchant", "collaborator"], "name": "kind", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "403": {"description": "Not verified or inactive", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "429": {"description": "Locked out", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/merchant/customers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Merchant"],
                "summary": "List customers",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Merchant"],
                "summary": "Onboard a customer with a wallet",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CustomerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Plan quota exceeded", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "409": {"description": "Email already used", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/merchant/wallet/transfer": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Merchant"],
                "summary": "Transfer to or from a customer wallet",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.TransferRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Insufficient funds or inactive wallet", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/admin/merchants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "List merchants",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Missing permission"}}
            }
        }
    },
    "definitions": {
        "api.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "VALIDATION_ERROR"},
                "message": {"type": "string"},
                "details": {"type": "object"}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "api.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "string"},
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "kind": {"type": "string"},
                "merchantId": {"type": "integer"},
                "role": {"type": "string"}
            }
        },
        "api.MeResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "kind": {"type": "string"},
                "permissions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "api.CustomerRequest": {
            "type": "object",
            "required": ["fullName", "phoneNumber", "agentId", "branchId"],
            "properties": {
                "fullName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "email": {"type": "string"},
                "agentId": {"type": "integer"},
                "branchId": {"type": "integer"},
                "packageId": {"type": "integer"},
                "alias": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "api.TransferRequest": {
            "type": "object",
            "required": ["customerId", "amount"],
            "properties": {
                "customerId": {"type": "integer"},
                "amount": {"type": "integer", "description": "kobo"},
                "type": {"type": "string", "enum": ["credit", "debit"]},
                "description": {"type": "string"},
                "paymentMethod": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "\"Bearer \" followed by the JWT from any login endpoint.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Alphaweb API",
	Description:      "Multi-tenant merchant collections and lending platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
