package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Interview Timetable API",
        "description": "Availability grid for interview scheduling: viewers mark free slots, admins block slots and pick dates.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule", "description": "Shared admin settings"},
        {"name": "Sessions", "description": "Per-page grid sessions"},
        {"name": "Grid", "description": "Pointer and keyboard events on the grid"},
        {"name": "Admin", "description": "Blocked slots, scheduled dates and the visible window"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Cache backend unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Current shared settings",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/schedule/events": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Stream shared settings as server-sent events",
                "produces": ["text/event-stream"],
                "responses": {"200": {"description": "Event stream"}}
            }
        },
        "/api/v1/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Open a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Too many open sessions", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/sessions/{id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get session",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "Close session",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"204": {"description": "Closed"}}
            }
        },
        "/api/v1/sessions/{id}/name": {
            "put": {
                "tags": ["Sessions"],
                "summary": "Set viewer name",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetNameRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "Clear viewer name",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/reset": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Clear the selection, or every admin setting for admin sessions",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/submit": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Submit availability",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Missing name or selection", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/sessions/{id}/grid": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Render the grid",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/export": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Download the grid",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/api/v1/sessions/{id}/grid/press": {
            "post": {
                "tags": ["Grid"],
                "summary": "Pointer press on a cell",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Too many events", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/sessions/{id}/grid/enter": {
            "post": {
                "tags": ["Grid"],
                "summary": "Pointer enters a cell",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CellRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/grid/release": {
            "post": {
                "tags": ["Grid"],
                "summary": "Pointer release",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/grid/toggle": {
            "post": {
                "tags": ["Grid"],
                "summary": "Keyboard toggle of a focused cell",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/admin/dates/toggle": {
            "post": {
                "tags": ["Admin"],
                "summary": "Add or remove a scheduled date",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not an admin session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/sessions/{id}/admin/dates/{index}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Remove the scheduled date at an index",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "index", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/admin/dates": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Clear scheduled dates",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/admin/window": {
            "put": {
                "tags": ["Admin"],
                "summary": "Set the visible time window",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WindowRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/admin/window/start": {
            "put": {
                "tags": ["Admin"],
                "summary": "Set the window start",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimeBoundRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/admin/window/end": {
            "put": {
                "tags": ["Admin"],
                "summary": "Set the window end",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimeBoundRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/admin/blocks/import": {
            "post": {
                "tags": ["Admin"],
                "summary": "Import blocked slots in dated or legacy form",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportBlocksRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/sessions/{id}/admin/save": {
            "post": {
                "tags": ["Admin"],
                "summary": "Publish blocked slots and dates",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "End time not after start time", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "SessionID": {"name": "id", "in": "path", "required": true, "type": "string"}
    },
    "definitions": {
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["mentor", "applicant", "admin"]},
                "name": {"type": "string"}
            },
            "required": ["role"]
        },
        "SetNameRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "CellRequest": {
            "type": "object",
            "properties": {
                "date_index": {"type": "integer"},
                "hour": {"type": "integer"},
                "minute": {"type": "integer", "enum": [0, 30]}
            },
            "required": ["date_index", "hour", "minute"]
        },
        "PressRequest": {
            "type": "object",
            "properties": {
                "date_index": {"type": "integer"},
                "hour": {"type": "integer"},
                "minute": {"type": "integer", "enum": [0, 30]},
                "button": {"type": "integer", "enum": [0, 1, 2]}
            },
            "required": ["date_index", "hour", "minute"]
        },
        "ToggleRequest": {
            "type": "object",
            "properties": {
                "date_index": {"type": "integer"},
                "hour": {"type": "integer"},
                "minute": {"type": "integer", "enum": [0, 30]},
                "key": {"type": "string", "enum": ["Enter", " "]}
            },
            "required": ["date_index", "hour", "minute", "key"]
        },
        "DateRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"}
            },
            "required": ["date"]
        },
        "WindowRequest": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "09:00"},
                "end": {"type": "string", "example": "17:30"}
            }
        },
        "TimeBoundRequest": {
            "type": "object",
            "properties": {
                "time": {"type": "string", "example": "09:00"}
            }
        },
        "BlockRecord": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "day": {"type": "integer"},
                "hour": {"type": "integer"},
                "minute": {"type": "integer"},
                "blocked": {"type": "boolean"}
            }
        },
        "ImportBlocksRequest": {
            "type": "object",
            "properties": {
                "blocked_slots": {"type": "array", "items": {"$ref": "#/definitions/BlockRecord"}}
            }
        },
        "Notice": {
            "type": "object",
            "properties": {
                "level": {"type": "string", "enum": ["success", "warning", "error"]},
                "code": {"type": "string"},
                "message": {"type": "string"}
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
                "notices": {"type": "array", "items": {"$ref": "#/definitions/Notice"}},
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
