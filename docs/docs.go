// Package docs holds the swagger description of the API.
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
        "/token": {
            "post": {
                "tags": ["auth"],
                "summary": "Get a token",
                "parameters": [{"in": "body", "name": "object", "required": true, "schema": {"$ref": "#/definitions/vsphere.Auth"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/inventory": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["inventory"], "summary": "Inventory", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/inventory/{category}": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["inventory"], "summary": "Inventory table",
                "parameters": [{"type": "string", "name": "category", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/v1/inventory/{category}/{key}": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["inventory"], "summary": "Inventory record",
                "parameters": [{"type": "string", "name": "category", "in": "path", "required": true}, {"type": "string", "name": "key", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/v1/refresh": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["inventory"], "summary": "Poll now", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/entities": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["entities"], "summary": "Entities", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/entities/{uniqueID}": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["entities"], "summary": "Entity",
                "parameters": [{"type": "string", "name": "uniqueID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/v1/entities/{uniqueID}/{action}": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["entities"], "summary": "Entity action",
                "parameters": [{"type": "string", "name": "uniqueID", "in": "path", "required": true}, {"type": "string", "name": "action", "in": "path", "required": true}],
                "responses": {"202": {"description": "Accepted"}}}
        },
        "/v1/vms/power": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["vms"], "summary": "VM power", "responses": {"202": {"description": "Accepted"}}}
        },
        "/v1/vms/snapshots": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["vms"], "summary": "Create snapshots", "responses": {"202": {"description": "Accepted"}}},
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["vms"], "summary": "Remove snapshots", "responses": {"202": {"description": "Accepted"}}}
        },
        "/v1/hosts/power": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["hosts"], "summary": "Host power", "responses": {"202": {"description": "Accepted"}}}
        },
        "/v1/hosts/power_policy": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["hosts"], "summary": "Host power policy", "responses": {"202": {"description": "Accepted"}}}
        },
        "/v1/hosts/list": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["hosts"], "summary": "List hosts", "responses": {"202": {"description": "Accepted"}}}
        },
        "/v1/hosts/power_policies": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["hosts"], "summary": "List power policies", "responses": {"202": {"description": "Accepted"}}}
        },
        "/v1/notifications": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["notifications"], "summary": "Notification history",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/v1/stream": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["notifications"], "summary": "Live events", "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "definitions": {
        "vsphere.Auth": {
            "type": "object",
            "properties": {
                "host": {"type": "string"},
                "port": {"type": "integer"},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "token", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8829",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "esxi-stats API",
	Description:      "ESXi and vCenter inventory, entities and commands",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
