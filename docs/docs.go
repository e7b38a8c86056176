// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Dependency health",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/justificaciones/whatsapp/recepcion": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["justificaciones"],
                "summary": "External ingestion",
                "parameters": [
                    {"description": "Payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.ExternalInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.externalResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.externalResponse"}}
                }
            }
        },
        "/justificaciones/nueva": {
            "post": {
                "consumes": ["multipart/form-data"],
                "tags": ["justificaciones"],
                "summary": "File a justification",
                "parameters": [
                    {"type": "string", "description": "YYYY-MM-DD", "name": "fecha_inicio", "in": "formData", "required": true},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "fecha_fin", "in": "formData"},
                    {"type": "string", "description": "Reason", "name": "motivo", "in": "formData", "required": true},
                    {"type": "string", "description": "Description", "name": "descripcion", "in": "formData"},
                    {"type": "file", "description": "PDF or PNG", "name": "archivo", "in": "formData"}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.validationPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/justificaciones/mis": {
            "get": {
                "produces": ["application/json"],
                "tags": ["justificaciones"],
                "summary": "Visible justifications",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.JustificationListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/justificaciones/detalle/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["justificaciones"],
                "summary": "Justification detail",
                "parameters": [
                    {"type": "integer", "description": "Justification ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Justification"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/justificaciones/coordinador/revisar/{id}/aprobar": {
            "post": {
                "tags": ["coordinador"],
                "summary": "Approve",
                "parameters": [
                    {"type": "integer", "description": "Justification ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Comment", "name": "comentarios_coordinador", "in": "formData"}
                ],
                "responses": {
                    "303": {"description": "See Other"}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handler.errorEnvelope"}, "request_id": {"type": "string"}}
        },
        "handler.validationPayload": {
            "type": "object",
            "properties": {"errors": {"type": "object", "additionalProperties": {"type": "string"}}, "request_id": {"type": "string"}}
        },
        "handler.externalResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "id": {"type": "integer"}, "ok": {"type": "boolean"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {"redirect": {"type": "string"}, "token": {"type": "string"}, "user": {"$ref": "#/definitions/model.User"}}
        },
        "service.ExternalInput": {
            "type": "object",
            "properties": {"descripcion": {"type": "string"}, "fecha": {"type": "string"}, "motivo": {"type": "string"}, "username": {"type": "string"}}
        },
        "service.JustificationListResult": {
            "type": "object",
            "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/model.Justification"}}, "total": {"type": "integer"}}
        },
        "model.Document": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "justificacion_id": {"type": "integer"},
                "archivo": {"type": "string"},
                "url": {"type": "string"},
                "legible": {"type": "boolean"},
                "validado_en": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "model.Justification": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "estudiante_id": {"type": "integer"},
                "estudiante": {"type": "string"},
                "fecha_inicio": {"type": "string"},
                "fecha_fin": {"type": "string"},
                "motivo": {"type": "string"},
                "descripcion": {"type": "string"},
                "estado": {"type": "string", "enum": ["PENDIENTE", "APROBADA", "RECHAZADA"]},
                "comentarios_coordinador": {"type": "string"},
                "fuente": {"type": "string", "enum": ["app", "whatsapp"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "documentos": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "rol": {"type": "string", "enum": ["ESTUDIANTE", "PROFESOR", "COORDINADOR", "ADMINISTRATIVO"]},
                "is_superuser": {"type": "boolean"},
                "is_active": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "JustiFácil API",
	Description:      "Absence justification workflow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
