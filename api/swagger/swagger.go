package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Fee Reminder API",
        "description": "Automated payment-reminder scheduler for campus operations",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reminders", "description": "Payment reminder scheduling"},
        {"name": "Communications", "description": "Outbound notification audit log"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/reminders/run": {
            "post": {
                "tags": ["Reminders"],
                "summary": "Trigger a payment-reminder run",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/TriggerReminderRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Run completed; inspect results for per-obligation outcomes"},
                    "401": {"description": "Missing or invalid service token"},
                    "500": {"description": "Run could not start"}
                }
            }
        },
        "/api/v1/communications": {
            "get": {
                "tags": ["Communications"],
                "summary": "List communication audit entries",
                "parameters": [
                    {"name": "channel", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["sent", "failed"]},
                    {"name": "recipient", "in": "query", "type": "string"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/communications/export": {
            "get": {
                "tags": ["Communications"],
                "summary": "Export communication audit entries",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "required": true},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Export payload"}
                }
            }
        }
    },
    "definitions": {
        "TriggerReminderRequest": {
            "type": "object",
            "properties": {
                "test_mode": {"type": "boolean"},
                "test_all_emails": {"type": "boolean"}
            }
        },
        "ReminderResult": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "payment_id": {"type": "string"},
                "reminder_type": {"type": "string"},
                "success": {"type": "boolean"},
                "message": {"type": "string"}
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
