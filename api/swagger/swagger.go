package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Match Scheduler Gateway",
        "description": "Scheduling wizard in front of the tournament match scheduler",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Wizards",
            "description": "Scheduling wizard sessions"
        },
        {
            "name": "Stages",
            "description": "Stage readiness, matches and run history"
        },
        {
            "name": "Exports",
            "description": "Published match sheets"
        }
    ],
    "paths": {
        "/wizards": {
            "post": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Open a scheduling wizard for a stage",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/OpenWizardRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}": {
            "get": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Get wizard state",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Close a wizard and cancel any in-flight submission",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/wizards/{id}/config": {
            "put": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Select the scheduler type and its parameters",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateSchedulerConfigRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Submission in progress",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/teams": {
            "post": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Move to team selection and load the roster",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "get": {
                "tags": [
                    "Wizards"
                ],
                "summary": "List roster teams matching a search",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/teams/toggle": {
            "post": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Select or deselect one team",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ToggleTeamRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/teams/select-filtered": {
            "post": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Select all filtered teams, or deselect them when all are already selected",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SelectFilteredRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/back": {
            "post": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Return to the configuration view",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/reset": {
            "post": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Discard results and start another schedule",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/submit": {
            "post": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Generate matches with the configured scheduler",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Submission in progress",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "410": {
                        "description": "Wizard closed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Scheduler error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/results": {
            "get": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Page through generated matches",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/export": {
            "get": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Download generated matches as CSV or PDF",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Match sheet",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/stages/{id}/readiness": {
            "get": {
                "tags": [
                    "Stages"
                ],
                "summary": "Evaluate whether a stage may advance",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "stageType",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "SWISS",
                            "PLAYOFF",
                            "FINAL"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/stages/{id}/matches": {
            "get": {
                "tags": [
                    "Stages"
                ],
                "summary": "List the matches of a stage",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/stages/{id}/scheduling-runs": {
            "get": {
                "tags": [
                    "Stages"
                ],
                "summary": "List recorded schedule submissions of a stage",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/matches": {
            "get": {
                "tags": [
                    "Stages"
                ],
                "summary": "List all matches",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/wizards/{id}/export/link": {
            "post": {
                "tags": [
                    "Wizards"
                ],
                "summary": "Publish the match sheet behind a signed download link",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "pdf"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Download a published match sheet",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Match sheet",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Unknown link",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "410": {
                        "description": "Link expired",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "OpenWizardRequest": {
            "type": "object",
            "properties": {
                "stageId": {
                    "type": "string"
                },
                "stageType": {
                    "type": "string",
                    "enum": [
                        "SWISS",
                        "PLAYOFF",
                        "FINAL"
                    ]
                },
                "tournamentId": {
                    "type": "string"
                }
            },
            "required": [
                "stageId",
                "stageType"
            ]
        },
        "UpdateSchedulerConfigRequest": {
            "type": "object",
            "properties": {
                "schedulerType": {
                    "type": "string",
                    "enum": [
                        "swiss",
                        "playoff",
                        "frc",
                        "manual"
                    ]
                },
                "teamsPerAlliance": {
                    "type": "integer"
                },
                "swiss": {
                    "type": "object",
                    "properties": {
                        "currentRoundNumber": {
                            "type": "integer"
                        }
                    }
                },
                "playoff": {
                    "type": "object",
                    "properties": {
                        "numberOfRounds": {
                            "type": "integer",
                            "enum": [
                                2,
                                3,
                                4,
                                5
                            ]
                        }
                    }
                },
                "frc": {
                    "type": "object",
                    "properties": {
                        "preset": {
                            "type": "string",
                            "enum": [
                                "frcQuick",
                                "frcRegional",
                                "frcChampionship",
                                "frcOffseason"
                            ]
                        },
                        "rounds": {
                            "type": "integer"
                        },
                        "qualityLevel": {
                            "type": "string",
                            "enum": [
                                "low",
                                "medium",
                                "high"
                            ]
                        },
                        "minMatchSeparation": {
                            "type": "integer"
                        },
                        "advanced": {
                            "type": "object",
                            "properties": {
                                "enabled": {
                                    "type": "boolean"
                                },
                                "stationBalancing": {
                                    "type": "boolean"
                                }
                            }
                        }
                    }
                }
            },
            "required": [
                "schedulerType"
            ]
        },
        "ToggleTeamRequest": {
            "type": "object",
            "properties": {
                "teamId": {
                    "type": "string"
                }
            },
            "required": [
                "teamId"
            ]
        },
        "SelectFilteredRequest": {
            "type": "object",
            "properties": {
                "search": {
                    "type": "string"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
