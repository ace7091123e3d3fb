// Package docs registers the OpenAPI document served by gin-swagger.
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
        "/auth": {
            "post": {
                "description": "Exchange email and password for a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "User login",
                "parameters": [
                    {
                        "description": "Login Request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}
                }
            }
        },
        "/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get own profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}
                }
            },
            "post": {
                "description": "Create an account; an optional profile picture can be sent in the same multipart form",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register new user",
                "parameters": [
                    {"type": "string", "description": "Name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "10 digit phone number", "name": "phone", "in": "formData"},
                    {"type": "string", "description": "Password (6 or more characters)", "name": "password", "in": "formData", "required": true},
                    {"type": "file", "description": "jpeg, jpg, png or jfif image", "name": "profile_picture", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}
                }
            }
        },
        "/user/all": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List all users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}
                }
            }
        },
        "/user/update": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Fields left out keep their stored value. The password cannot be changed here.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Update own profile",
                "parameters": [
                    {"type": "string", "description": "Name", "name": "name", "in": "formData"},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData"},
                    {"type": "string", "description": "10 digit phone number", "name": "phone", "in": "formData"},
                    {"type": "file", "description": "jpeg, jpg, png or jfif image", "name": "profile_picture", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "models.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "array", "items": {"$ref": "#/definitions/models.FieldError"}},
                "statusCode": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "models.FieldError": {
            "type": "object",
            "properties": {
                "location": {"type": "string"},
                "msg": {"type": "string"},
                "param": {"type": "string"},
                "value": {}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "User Account API",
	Description:      "Registration, profile and profile picture endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
