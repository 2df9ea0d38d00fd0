package docs

import (
	"strings"
	"testing"
)

func TestSwaggerInfoRegistered(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title == "" {
		t.Fatal("swagger info missing title")
	}
}

func TestSwaggerDocRenders(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()
	for _, path := range []string{`"/api/summary"`, `"/api/scan"`, `"/api/cache/{key}"`} {
		if !strings.Contains(doc, path) {
			t.Fatalf("swagger doc missing %s", path)
		}
	}
	if !strings.Contains(doc, "MarketPulse API") {
		t.Fatal("swagger doc missing title")
	}
}
