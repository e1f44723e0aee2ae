package main

import (
	"path/filepath"
	"testing"

	"vellum/internal/testsupport"
)

func TestValidateTaggedDocument(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "doc.json")
	testsupport.WriteFile(t, path, `{"_CLS": "vision.Frame", "index": 4}`)

	out, _, err := runCLI(t, []string{"validate", path}, env.configPath)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	requireContains(t, out, "[OK] vision.Frame")
}

func TestValidateUntaggedDocumentWarns(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "doc.json")
	testsupport.WriteFile(t, path, `{"index": 4}`)

	out, _, err := runCLI(t, []string{"validate", path}, env.configPath)
	if err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}
	requireContains(t, out, "[WARN]")
}

func TestValidateFailures(t *testing.T) {
	cases := map[string]struct {
		contents string
		want     string
	}{
		"malformed":         {`{"a":`, "[ERROR]"},
		"empty tag":         {`{"_CLS": ""}`, "type tag is empty"},
		"non-string tag":    {`{"_CLS": 7}`, "type tag is not a string"},
		"orphan elem tag":   {`{"_CLS": "x.Pack", "_ELEMENT_CLS": "x.Item"}`, "element type tag without an element list"},
		"elements not list": {`{"_CLS": "x.Pack", "elements": 3}`, "element list is not an array"},
		"scalar element":    {`{"_CLS": "x.Pack", "elements": [1]}`, "element 0 is not an object"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			env := setupCLITestEnv(t)
			path := filepath.Join(env.baseDir, "doc.json")
			testsupport.WriteFile(t, path, tc.contents)

			out, _, err := runCLI(t, []string{"validate", path}, env.configPath)
			if err == nil {
				t.Fatalf("expected failure, out %q", out)
			}
			requireContains(t, out, tc.want)
		})
	}
}

func TestValidateMixedFilesCountsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	good := filepath.Join(env.baseDir, "good.json")
	bad := filepath.Join(env.baseDir, "bad.json")
	testsupport.WriteFile(t, good, `{"_CLS": "x.Doc"}`)
	testsupport.WriteFile(t, bad, `{"_CLS": 1}`)

	_, _, err := runCLI(t, []string{"validate", good, bad}, env.configPath)
	if err == nil {
		t.Fatal("expected failure")
	}
	requireContains(t, err.Error(), "1 of 2")
}
