package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Willowpath Scheduler API",
        "description": "Auto-scheduling engine for therapy practices: conflict detection, alternative suggestions, and optimal schedule generation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scheduling", "description": "Schedule generation, conflict checks, and proposals"}
    ],
    "paths": {
        "/schedule/generate": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Generate an optimal schedule proposal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "412": {"description": "Empty roster"}
                }
            }
        },
        "/schedule/conflicts": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Check a proposed session for conflicts",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConflictCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Therapist or client not found"}
                }
            }
        },
        "/schedule/alternatives": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Suggest alternative windows for a conflicting session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConflictCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/proposals/{id}/save": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Persist a generated proposal as scheduled sessions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Proposal not found or expired"}
                }
            }
        },
        "/schedule/proposals/{id}/export": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "Export a proposal as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Proposal not found or expired"}
                }
            }
        }
    },
    "definitions": {
        "GenerateScheduleRequest": {
            "type": "object",
            "properties": {
                "startDate": {"type": "string", "example": "2026-09-07"},
                "endDate": {"type": "string", "example": "2026-09-12"},
                "therapistIds": {"type": "array", "items": {"type": "string"}},
                "clientIds": {"type": "array", "items": {"type": "string"}},
                "oneSessionPerClientPerDay": {"type": "boolean"}
            },
            "required": ["startDate", "endDate"]
        },
        "ConflictCheckRequest": {
            "type": "object",
            "properties": {
                "therapistId": {"type": "string"},
                "clientId": {"type": "string"},
                "startTime": {"type": "string", "format": "date-time"},
                "endTime": {"type": "string", "format": "date-time"},
                "excludeSessionId": {"type": "string"}
            },
            "required": ["therapistId", "clientId", "startTime", "endTime"]
        },
        "Conflict": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["DOUBLE_BOOKING", "AVAILABILITY_VIOLATION", "TRAVEL_INFEASIBLE", "CAPACITY_EXCEEDED"]},
                "message": {"type": "string"},
                "severity": {"type": "string", "enum": ["hard", "soft"]}
            }
        },
        "ScheduleSlot": {
            "type": "object",
            "properties": {
                "therapist_id": {"type": "string"},
                "client_id": {"type": "string"},
                "start_time": {"type": "string", "format": "date-time"},
                "end_time": {"type": "string", "format": "date-time"},
                "score": {"type": "number"}
            }
        },
        "AlternativeTime": {
            "type": "object",
            "properties": {
                "start_time": {"type": "string", "format": "date-time"},
                "end_time": {"type": "string", "format": "date-time"},
                "score": {"type": "number"},
                "reason": {"type": "string"}
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
