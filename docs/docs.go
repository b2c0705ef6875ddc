// Package docs holds the OpenAPI document served under /swagger.
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
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Create a user",
                "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/types.CreateUserRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.User"}},
                    "400": {"description": "USER_ALREADY_EXISTS", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "502": {"description": "LLM_BAD_RESPONSE", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/users/info": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get a user with their groups",
                "parameters": [{"type": "string", "name": "email", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UserInfo"}},
                    "404": {"description": "USER_NOT_FOUND", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/groups": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Groups"],
                "summary": "Create a group",
                "parameters": [{"in": "body", "name": "group", "required": true, "schema": {"$ref": "#/definitions/types.CreateGroupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Group"}},
                    "404": {"description": "CREATOR_NOT_FOUND", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/groups/{groupID}/members": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Groups"],
                "summary": "Add a member to a group",
                "parameters": [
                    {"type": "string", "name": "groupID", "in": "path", "required": true},
                    {"in": "body", "name": "member", "required": true, "schema": {"$ref": "#/definitions/types.AddMemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.GroupMember"}},
                    "400": {"description": "USER_ALREADY_IN_GROUP", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "404": {"description": "USER_NOT_FOUND or GROUP_NOT_FOUND", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/groups/{groupID}/traits": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Groups"],
                "summary": "Get member traits of a group",
                "parameters": [{"type": "string", "name": "groupID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.GroupTraits"}},
                    "404": {"description": "GROUP_NOT_FOUND or NO_MEMBERS_FOUND", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/groups/{groupID}/process": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Groups"],
                "summary": "Rebuild the group knowledge summary",
                "parameters": [{"type": "string", "name": "groupID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ProcessResult"}},
                    "404": {"description": "GROUP_NOT_FOUND", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "502": {"description": "LLM_BAD_RESPONSE", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/groups/{groupID}/recommendations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Get trip recommendations for a group",
                "parameters": [
                    {"type": "string", "name": "groupID", "in": "path", "required": true},
                    {"type": "string", "name": "destination", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Recommendations"}},
                    "400": {"description": "KN_NOT_READY", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "404": {"description": "GROUP_NOT_FOUND", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/groups/{groupID}/plan": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Plans"],
                "summary": "Generate a trip plan for a group",
                "parameters": [
                    {"type": "string", "name": "groupID", "in": "path", "required": true},
                    {"in": "body", "name": "plan", "required": true, "schema": {"$ref": "#/definitions/types.CreatePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.TripPlan"}},
                    "400": {"description": "KN_NOT_READY", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "502": {"description": "LLM_BAD_RESPONSE", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/groups/{groupID}/plans": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Plans"],
                "summary": "List a group's stored plans",
                "parameters": [{"type": "string", "name": "groupID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.TripPlan"}}}
                }
            }
        },
        "/plans/by-group-name": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Plans"],
                "summary": "Generate a trip plan for the newest group with a name",
                "parameters": [{"in": "body", "name": "plan", "required": true, "schema": {"$ref": "#/definitions/types.PlanByGroupNameRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.TripPlan"}},
                    "404": {"description": "GROUP_NOT_FOUND", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "object"},
                "request_id": {"type": "string"}
            }
        },
        "types.CreateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "asha@example.com"},
                "name": {"type": "string", "example": "Asha"},
                "user_answer": {"type": "object", "additionalProperties": true}
            }
        },
        "types.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "persona_traits": {"type": "object"},
                "ai_summary": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "types.UserInfo": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/types.User"},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/types.GroupInfo"}}
            }
        },
        "types.GroupInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "destination": {"type": "string"},
                "creator_id": {"type": "string"},
                "members": {"type": "array", "items": {"$ref": "#/definitions/types.MemberDetail"}},
                "plans": {"type": "array", "items": {"$ref": "#/definitions/types.TripPlan"}}
            }
        },
        "types.MemberDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "persona_traits": {"type": "object"},
                "ai_summary": {"type": "string"}
            }
        },
        "types.CreateGroupRequest": {
            "type": "object",
            "properties": {
                "group_name": {"type": "string", "example": "Weekend crew"},
                "destination": {"type": "string", "example": "Bangalore"},
                "creator_email": {"type": "string", "example": "asha@example.com"}
            }
        },
        "types.AddMemberRequest": {
            "type": "object",
            "properties": {"user_email": {"type": "string", "example": "ravi@example.com"}}
        },
        "types.Group": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "creator_id": {"type": "string"},
                "destination": {"type": "string"},
                "ai_group_kn_summary": {"type": "object"},
                "members_version": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "types.GroupMember": {
            "type": "object",
            "properties": {
                "group_id": {"type": "string"},
                "user_id": {"type": "string"},
                "role": {"type": "string"},
                "joined_at": {"type": "string"}
            }
        },
        "types.MemberPersona": {
            "type": "object",
            "properties": {
                "persona_traits": {"type": "object"},
                "ai_summary": {"type": "string"}
            }
        },
        "types.GroupTraits": {
            "type": "object",
            "properties": {
                "group_id": {"type": "string"},
                "group_name": {"type": "string"},
                "group_members": {"type": "array", "items": {"$ref": "#/definitions/types.MemberPersona"}}
            }
        },
        "types.ProcessResult": {
            "type": "object",
            "properties": {
                "group_id": {"type": "string"},
                "knowledge_graph": {"type": "object"},
                "summary": {"type": "object"},
                "stale": {"type": "boolean"}
            }
        },
        "types.Recommendations": {
            "type": "object",
            "properties": {
                "short_trip": {"type": "object"},
                "long_trip": {"type": "object"},
                "provenance": {"type": "string", "enum": ["live", "fallback"]}
            }
        },
        "types.CreatePlanRequest": {
            "type": "object",
            "properties": {"raw_data": {"type": "object", "additionalProperties": true}}
        },
        "types.PlanByGroupNameRequest": {
            "type": "object",
            "properties": {
                "group_name": {"type": "string"},
                "raw_data": {"type": "object", "additionalProperties": true}
            }
        },
        "types.TripPlan": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "group_id": {"type": "string"},
                "plan_json": {"type": "object"},
                "summary_caption": {"type": "string"},
                "estimated_cost_per_person": {"type": "number"},
                "created_at": {"type": "string"}
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
	Title:            "Group Trip Planner API",
	Description:      "Builds group knowledge from member personas and turns it into recommendations and trip plans.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
