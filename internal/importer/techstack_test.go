package importer

import "testing"

func TestParseTechStackJSON(t *testing.T) {
	text := "推荐技术栈：\n```javascript\nconst stack = {\n" +
		"  frontend: 'Next.js 14', // App Router\n" +
		"  backend: 'Node.js',\n" +
		"  database: \"PostgreSQL\",\n" +
		"  deployment: 'Vercel',\n" +
		"};\n```\n"

	got := parseTechStackJSON(text)
	if got == nil {
		t.Fatal("expected a parsed stack, got nil")
	}
	want := map[string]string{
		"frontend":   "Next.js 14",
		"backend":    "Node.js",
		"database":   "PostgreSQL",
		"deployment": "Vercel",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("key %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestParseTechStackJSONPlainJSON(t *testing.T) {
	text := "```json\n{\"frontend\": \"React\", \"backend\": \"Go\"}\n```"
	got := parseTechStackJSON(text)
	if got["frontend"] != "React" || got["backend"] != "Go" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestParseTechStackJSONSkipsNonStringValues(t *testing.T) {
	text := "```json\n{\"frontend\": \"React\", \"services\": [\"a\", \"b\"]}\n```"
	got := parseTechStackJSON(text)
	if got["frontend"] != "React" {
		t.Fatalf("string value lost: %v", got)
	}
	if _, ok := got["services"]; ok {
		t.Fatal("non-string value should be skipped")
	}
}

func TestParseTechStackJSONRejectsGarbage(t *testing.T) {
	for _, text := range []string{
		"no code fence here",
		"```javascript\nfunction evil() { return 1 }\n```",
		"```\nnot: an: object\n```",
	} {
		if got := parseTechStackJSON(text); got != nil {
			t.Errorf("expected nil for %q, got %v", text, got)
		}
	}
}
