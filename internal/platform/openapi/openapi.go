// Package openapi describes the public JSON API as an OpenAPI 3.0 document.
package openapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Generator builds the OpenAPI spec for the directory and contact endpoints.
type Generator struct {
	title   string
	version string
	baseURL string
	admin   bool
}

// NewGenerator creates a new OpenAPI spec generator.
func NewGenerator(title, version, baseURL string) *Generator {
	return &Generator{title: title, version: version, baseURL: baseURL}
}

// WithAdmin includes the admin doctor endpoints.
func (g *Generator) WithAdmin(enabled bool) *Generator {
	g.admin = enabled
	return g
}

func queryParam(name, typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          "query",
		"description": description,
		"schema":      map[string]string{"type": typ},
	}
}

var idParam = map[string]interface{}{
	"name": "id", "in": "path", "required": true,
	"schema": map[string]string{"type": "string", "format": "uuid"},
}

func jsonResponse(description, schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": schemaRef},
			},
		},
	}
}

func jsonBody(schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": schemaRef},
			},
		},
	}
}

var errorResponse = jsonResponse("Error", "#/components/schemas/Error")

// GenerateSpec produces the OpenAPI 3.0 spec as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	widthParam := queryParam("width", "integer", "Viewport width in CSS pixels. Falls back to the Viewport-Width client hint; unknown means wide.")
	expandedParam := queryParam("expanded", "boolean", "Show the whole filtered collection instead of the first page.")

	paths := map[string]interface{}{
		"/api/v1/doctors": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Doctor directory view",
				"operationId": "listDoctors",
				"tags":        []string{"Directory"},
				"parameters": []map[string]interface{}{
					queryParam("category", "string", "Specialization to filter by. All or empty selects everyone."),
					expandedParam,
					widthParam,
				},
				"responses": map[string]interface{}{
					"200": jsonResponse("Visible doctors and view state", "#/components/schemas/DoctorView"),
				},
			},
		},
		"/api/v1/departments": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Department directory view",
				"operationId": "listDepartments",
				"tags":        []string{"Directory"},
				"parameters":  []map[string]interface{}{expandedParam, widthParam},
				"responses": map[string]interface{}{
					"200": jsonResponse("Visible departments and view state", "#/components/schemas/DepartmentView"),
				},
			},
		},
		"/api/v1/contact": map[string]interface{}{
			"post": map[string]interface{}{
				"summary":     "Compose a WhatsApp enquiry link",
				"operationId": "createEnquiry",
				"tags":        []string{"Contact"},
				"requestBody": jsonBody("#/components/schemas/Enquiry"),
				"responses": map[string]interface{}{
					"200": jsonResponse("Deep link", "#/components/schemas/EnquiryLink"),
					"422": errorResponse,
					"429": errorResponse,
				},
			},
		},
		"/media/doctors/{file}": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Doctor portrait",
				"operationId": "getPortrait",
				"tags":        []string{"Media"},
				"parameters": []map[string]interface{}{
					{"name": "file", "in": "path", "required": true, "schema": map[string]string{"type": "string"}},
					{"name": "size", "in": "query", "schema": map[string]interface{}{"type": "string", "enum": []string{"thumb", "medium"}}},
				},
				"responses": map[string]interface{}{
					"200": map[string]interface{}{
						"description": "Resized JPEG",
						"content":     map[string]interface{}{"image/jpeg": map[string]interface{}{}},
					},
					"404": errorResponse,
				},
			},
		},
	}

	if g.admin {
		g.addAdminPaths(paths)
	}

	spec := map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       g.title,
			"version":     g.version,
			"description": "Directory views, enquiries and portraits for the hospital site",
		},
		"servers": []map[string]string{
			{"url": g.baseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": buildComponentSchemas(),
		},
	}
	if g.admin {
		spec["components"].(map[string]interface{})["securitySchemes"] = map[string]interface{}{
			"bearerAuth": map[string]interface{}{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
		}
	}
	return spec
}

func (g *Generator) addAdminPaths(paths map[string]interface{}) {
	security := []map[string][]string{{"bearerAuth": {}}}
	doctor := "#/components/schemas/Doctor"

	paths["/api/v1/admin/doctors"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "List doctors, including inactive ones",
			"operationId": "adminListDoctors",
			"tags":        []string{"Admin"},
			"security":    security,
			"parameters": []map[string]interface{}{
				queryParam("limit", "integer", "Page size (default 20, max 100)."),
				queryParam("offset", "integer", "Rows to skip."),
			},
			"responses": map[string]interface{}{
				"200": jsonResponse("Doctor page", "#/components/schemas/DoctorPage"),
				"401": errorResponse,
			},
		},
		"post": map[string]interface{}{
			"summary":     "Create a doctor",
			"operationId": "adminCreateDoctor",
			"tags":        []string{"Admin"},
			"security":    security,
			"requestBody": jsonBody(doctor),
			"responses": map[string]interface{}{
				"201": jsonResponse("Created", doctor),
				"400": errorResponse,
			},
		},
	}
	paths["/api/v1/admin/doctors/{id}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Read a doctor",
			"operationId": "adminGetDoctor",
			"tags":        []string{"Admin"},
			"security":    security,
			"parameters":  []map[string]interface{}{idParam},
			"responses": map[string]interface{}{
				"200": jsonResponse("Doctor", doctor),
				"404": errorResponse,
			},
		},
		"put": map[string]interface{}{
			"summary":     "Update a doctor; omitted fields keep their values",
			"operationId": "adminUpdateDoctor",
			"tags":        []string{"Admin"},
			"security":    security,
			"parameters":  []map[string]interface{}{idParam},
			"requestBody": jsonBody(doctor),
			"responses": map[string]interface{}{
				"200": jsonResponse("Updated", doctor),
				"404": errorResponse,
			},
		},
		"delete": map[string]interface{}{
			"summary":     "Deactivate a doctor",
			"operationId": "adminDeactivateDoctor",
			"tags":        []string{"Admin"},
			"security":    security,
			"parameters":  []map[string]interface{}{idParam},
			"responses": map[string]interface{}{
				"204": map[string]interface{}{"description": "Deactivated"},
				"404": errorResponse,
			},
		},
	}
}

func str() map[string]interface{} { return map[string]interface{}{"type": "string"} }

func object(required []string, props map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// viewSchema wraps an item schema in the collection view envelope.
func viewSchema(itemRef string) map[string]interface{} {
	return object(nil, map[string]interface{}{
		"loading":     map[string]string{"type": "boolean"},
		"source":      map[string]interface{}{"type": "string", "enum": []string{"remote", "fallback"}},
		"items":       map[string]interface{}{"type": "array", "items": map[string]string{"$ref": itemRef}},
		"categories":  map[string]interface{}{"type": "array", "items": str()},
		"filter":      str(),
		"expanded":    map[string]string{"type": "boolean"},
		"page_size":   map[string]string{"type": "integer"},
		"total":       map[string]string{"type": "integer"},
		"show_toggle": map[string]string{"type": "boolean"},
	})
}

func buildComponentSchemas() map[string]interface{} {
	return map[string]interface{}{
		"DoctorCard": object([]string{"id", "name"}, map[string]interface{}{
			"id": str(), "name": str(), "specialization": str(), "education": str(),
			"image":          map[string]string{"type": "string", "format": "uri-reference"},
			"fallback_image": map[string]string{"type": "string", "format": "uri"},
		}),
		"DepartmentCard": object([]string{"id", "name"}, map[string]interface{}{
			"id": str(), "name": str(), "icon": str(),
			"accent": map[string]interface{}{"type": "string", "enum": []string{"coral", "slate"}},
		}),
		"DoctorView":     viewSchema("#/components/schemas/DoctorCard"),
		"DepartmentView": viewSchema("#/components/schemas/DepartmentCard"),
		"Enquiry": object([]string{"name", "email", "phone", "message"}, map[string]interface{}{
			"name":    str(),
			"email":   map[string]string{"type": "string", "format": "email"},
			"phone":   str(),
			"message": str(),
		}),
		"EnquiryLink": object([]string{"url"}, map[string]interface{}{
			"url": map[string]string{"type": "string", "format": "uri"},
		}),
		"Doctor": object([]string{"name"}, map[string]interface{}{
			"id":             map[string]string{"type": "string", "format": "uuid"},
			"name":           str(),
			"specialization": str(),
			"education":      str(),
			"image":          str(),
			"order_index":    map[string]interface{}{"type": "integer", "minimum": 0},
			"is_active":      map[string]string{"type": "boolean"},
			"created_at":     map[string]string{"type": "string", "format": "date-time"},
			"updated_at":     map[string]string{"type": "string", "format": "date-time"},
		}),
		"DoctorPage": object(nil, map[string]interface{}{
			"data":     map[string]interface{}{"type": "array", "items": map[string]string{"$ref": "#/components/schemas/Doctor"}},
			"total":    map[string]string{"type": "integer"},
			"limit":    map[string]string{"type": "integer"},
			"offset":   map[string]string{"type": "integer"},
			"has_more": map[string]string{"type": "boolean"},
		}),
		"Error": object([]string{"message"}, map[string]interface{}{
			"message": str(),
			"fields":  map[string]interface{}{"type": "object", "additionalProperties": str()},
		}),
	}
}

// RegisterRoutes registers the OpenAPI endpoint.
func (g *Generator) RegisterRoutes(apiGroup *echo.Group) {
	apiGroup.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.GenerateSpec())
	})
}
