package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Seating API",
        "description": "Exam seating allocation over school rooms and class rosters",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [
        {"BearerAuth": []}
    ],
    "tags": [
        {"name": "Rooms", "description": "Exam room catalog and seat overrides"},
        {"name": "Seating", "description": "Seat allocation and saved layouts"}
    ],
    "paths": {
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List exam rooms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create an exam room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Room code already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get an exam room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Rooms"],
                "summary": "Delete an exam room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/rooms/{id}/availability": {
            "patch": {
                "tags": ["Rooms"],
                "summary": "Open or close a room for allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}/seats": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Show every seat of a room with its status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}/seats/{coordinate}/toggle": {
            "post": {
                "tags": ["Rooms"],
                "summary": "Disable or re-enable one seat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "coordinate", "in": "path", "required": true, "type": "string", "description": "row-col-slot"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/allocate": {
            "post": {
                "tags": ["Seating"],
                "summary": "Allocate caller supplied seats to caller supplied rosters",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllocateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Too many seats", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/preview": {
            "post": {
                "tags": ["Seating"],
                "summary": "Preview an allocation over catalog rooms and classes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/layouts": {
            "get": {
                "tags": ["Seating"],
                "summary": "List saved seating layouts",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Seating"],
                "summary": "Allocate and store a seating layout",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/layouts/{id}": {
            "get": {
                "tags": ["Seating"],
                "summary": "Get a saved seating layout",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Seating"],
                "summary": "Delete a saved seating layout",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/seating/layouts/{id}/export": {
            "get": {
                "tags": ["Seating"],
                "summary": "Download a saved seating layout",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        }
    },
    "definitions": {
        "CreateRoomRequest": {
            "type": "object",
            "required": ["code", "rows", "cols", "benchType"],
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "rows": {"type": "integer", "minimum": 1, "maximum": 100},
                "cols": {"type": "integer", "minimum": 1, "maximum": 100},
                "benchType": {"type": "integer", "minimum": 1, "maximum": 8},
                "available": {"type": "boolean"}
            }
        },
        "SetAvailabilityRequest": {
            "type": "object",
            "required": ["available"],
            "properties": {
                "available": {"type": "boolean"}
            }
        },
        "SeatInput": {
            "type": "object",
            "required": ["coordinate"],
            "properties": {
                "seatNumber": {"type": "integer"},
                "coordinate": {"type": "string"},
                "status": {"type": "string", "enum": ["available", "unavailable"]}
            }
        },
        "StudentInput": {
            "type": "object",
            "required": ["studentId"],
            "properties": {
                "studentId": {"type": "string"}
            }
        },
        "AllocateRequest": {
            "type": "object",
            "properties": {
                "roomSeats": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/SeatInput"}}},
                "studentsByClass": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/StudentInput"}}}
            }
        },
        "ClassCount": {
            "type": "object",
            "required": ["classId"],
            "properties": {
                "classId": {"type": "string"},
                "studentCount": {"type": "integer", "minimum": 0, "maximum": 5000}
            }
        },
        "PreviewRequest": {
            "type": "object",
            "properties": {
                "roomIds": {"type": "array", "items": {"type": "string"}},
                "classIds": {"type": "array", "items": {"type": "string"}},
                "classes": {"type": "array", "items": {"$ref": "#/definitions/ClassCount"}},
                "disabledSeats": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
