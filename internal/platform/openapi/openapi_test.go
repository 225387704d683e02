package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGenerateSpec_Structure(t *testing.T) {
	g := NewGenerator("EH Hospital API", "1.0.0", "http://localhost:8000")

	spec := g.GenerateSpec()

	if spec["openapi"] != "3.0.3" {
		t.Errorf("expected openapi '3.0.3', got %v", spec["openapi"])
	}

	info, ok := spec["info"].(map[string]interface{})
	if !ok {
		t.Fatal("expected info object")
	}
	if info["title"] != "EH Hospital API" {
		t.Errorf("expected title 'EH Hospital API', got %v", info["title"])
	}
	if info["version"] != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %v", info["version"])
	}

	servers, ok := spec["servers"].([]map[string]string)
	if !ok || len(servers) != 1 {
		t.Fatalf("expected 1 server, got %v", spec["servers"])
	}
	if servers[0]["url"] != "http://localhost:8000" {
		t.Errorf("expected server url http://localhost:8000, got %s", servers[0]["url"])
	}
}

func TestGenerateSpec_PublicPaths(t *testing.T) {
	spec := NewGenerator("API", "1.0.0", "").GenerateSpec()
	paths := spec["paths"].(map[string]interface{})

	for _, p := range []string{"/api/v1/doctors", "/api/v1/departments", "/api/v1/contact", "/media/doctors/{file}"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("expected path %s", p)
		}
	}
	if _, ok := paths["/api/v1/admin/doctors"]; ok {
		t.Error("expected no admin paths by default")
	}

	doctors := paths["/api/v1/doctors"].(map[string]interface{})["get"].(map[string]interface{})
	params := doctors["parameters"].([]map[string]interface{})
	names := map[string]bool{}
	for _, p := range params {
		names[p["name"].(string)] = true
	}
	for _, want := range []string{"category", "expanded", "width"} {
		if !names[want] {
			t.Errorf("expected %s parameter on doctors view", want)
		}
	}
}

func TestGenerateSpec_AdminPaths(t *testing.T) {
	spec := NewGenerator("API", "1.0.0", "").WithAdmin(true).GenerateSpec()
	paths := spec["paths"].(map[string]interface{})

	item, ok := paths["/api/v1/admin/doctors/{id}"].(map[string]interface{})
	if !ok {
		t.Fatal("expected admin doctor item path")
	}
	for _, method := range []string{"get", "put", "delete"} {
		if _, ok := item[method]; !ok {
			t.Errorf("expected %s on admin doctor item", method)
		}
	}

	components := spec["components"].(map[string]interface{})
	if _, ok := components["securitySchemes"]; !ok {
		t.Error("expected bearer security scheme with admin enabled")
	}
}

func TestGenerateSpec_SchemaRefsResolve(t *testing.T) {
	spec := NewGenerator("API", "1.0.0", "").WithAdmin(true).GenerateSpec()
	raw, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	schemas := decoded["components"].(map[string]interface{})["schemas"].(map[string]interface{})

	var walk func(v interface{})
	walk = func(v interface{}) {
		switch v := v.(type) {
		case map[string]interface{}:
			if ref, ok := v["$ref"].(string); ok {
				name := ref[len("#/components/schemas/"):]
				if _, ok := schemas[name]; !ok {
					t.Errorf("dangling ref %s", ref)
				}
			}
			for _, child := range v {
				walk(child)
			}
		case []interface{}:
			for _, child := range v {
				walk(child)
			}
		}
	}
	walk(decoded)
}

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	NewGenerator("API", "1.0.0", "").RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["openapi"] != "3.0.3" {
		t.Errorf("expected openapi 3.0.3, got %v", body["openapi"])
	}
}
