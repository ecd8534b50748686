package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Optimizer API",
        "description": "Generates, reviews and exports conflict-aware class timetables",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Candidate generation and review lifecycle"},
        {"name": "Health", "description": "Liveness and readiness probes"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe with runtime counters",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/api/v1/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate ranked timetable candidates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid universe", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "504": {"description": "Generation timed out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/proposals/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a generated proposal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or expired proposal", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/jobs": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Queue an asynchronous timetable generation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Asynchronous generation disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/jobs/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get asynchronous generation status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List stored timetables",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["draft", "under_review", "approved", "rejected"]},
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Save a proposal candidate as a draft timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown proposal or candidate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a stored timetable with its entries",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a draft timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Timetable is not a draft", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}/entries": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List entries of a stored timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Download a stored timetable as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file", "schema": {"type": "file"}}
                }
            }
        },
        "/api/v1/timetables/{id}/status": {
            "patch": {
                "tags": ["Timetables"],
                "summary": "Move a stored timetable through review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTimetableStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Classroom": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "capacity": {"type": "integer"},
                "type": {"type": "string", "enum": ["lecture", "laboratory", "seminar"]},
                "equipment": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["id", "capacity"]
        },
        "Subject": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "code": {"type": "string"},
                "hoursPerWeek": {"type": "integer", "description": "weekly requirement in minutes"},
                "type": {"type": "string", "enum": ["theory", "practical", "tutorial"]},
                "requiredEquipment": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["id", "hoursPerWeek"]
        },
        "Faculty": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}},
                "maxHoursPerWeek": {"type": "integer"},
                "preferredTimeSlots": {"type": "array", "items": {"type": "string"}},
                "unavailableSlots": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["id"]
        },
        "Batch": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "studentCount": {"type": "integer"},
                "subjects": {"type": "array", "items": {"type": "string"}},
                "shift": {"type": "string", "enum": ["morning", "afternoon", "evening"]}
            },
            "required": ["id", "studentCount"]
        },
        "TimeSlot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "day": {"type": "string"},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "10:00"},
                "duration": {"type": "integer"}
            },
            "required": ["id", "day", "startTime", "endTime"]
        },
        "FixedClass": {
            "type": "object",
            "properties": {
                "subjectId": {"type": "string"},
                "batchId": {"type": "string"},
                "facultyId": {"type": "string"},
                "classroomId": {"type": "string"},
                "timeSlot": {"type": "string"}
            },
            "required": ["subjectId", "batchId", "facultyId", "classroomId", "timeSlot"]
        },
        "OptimizationParameters": {
            "type": "object",
            "properties": {
                "maxClassesPerDay": {"type": "integer"},
                "preferredStartTime": {"type": "string"},
                "preferredEndTime": {"type": "string"},
                "lunchBreakDuration": {"type": "integer"},
                "minBreakBetweenClasses": {"type": "integer"},
                "allowBackToBackClasses": {"type": "boolean"},
                "prioritizeLabEquipment": {"type": "boolean"},
                "balanceFacultyWorkload": {"type": "boolean"},
                "minimizeGapsBetweenClasses": {"type": "boolean"}
            }
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "candidateCount": {"type": "integer"},
                "classrooms": {"type": "array", "items": {"$ref": "#/definitions/Classroom"}},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/Subject"}},
                "faculty": {"type": "array", "items": {"$ref": "#/definitions/Faculty"}},
                "batches": {"type": "array", "items": {"$ref": "#/definitions/Batch"}},
                "timeSlots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}},
                "fixedClasses": {"type": "array", "items": {"$ref": "#/definitions/FixedClass"}},
                "parameters": {"$ref": "#/definitions/OptimizationParameters"}
            }
        },
        "SaveTimetableRequest": {
            "type": "object",
            "properties": {
                "proposalId": {"type": "string"},
                "candidateId": {"type": "string"},
                "name": {"type": "string"}
            },
            "required": ["proposalId", "candidateId"]
        },
        "UpdateTimetableStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["draft", "under_review", "approved", "rejected"]}
            },
            "required": ["status"]
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
