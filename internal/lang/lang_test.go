package lang

import (
	"testing"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".ts", "typescript"},
		{".tsx", "tsx"},
		{".js", ""},
		{".py", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"src/commands/help.ts", "typescript"},
		{"src/view.tsx", "tsx"},
		{"src/types.d.ts", "typescript"},
		{"README", ""},
		{"src/main.go", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			var got string
			if l := ForPath(tt.path); l != nil {
				got = l.Name
			}
			if got != tt.want {
				t.Errorf("ForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"typescript", "tsx"} {
		l, ok := Languages[name]
		if !ok {
			t.Fatalf("%s language not registered", name)
		}
		if l.GetLanguage() == nil {
			t.Errorf("%s language is nil", name)
		}
	}
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	ts := Languages["typescript"]
	p := ts.NewParser()
	if p == nil {
		t.Fatal("NewParser returned nil")
	}
}

func TestIsDeclarationFile(t *testing.T) {
	t.Parallel()

	if !IsDeclarationFile("src/types.d.ts") {
		t.Error("types.d.ts should be a declaration file")
	}
	if IsDeclarationFile("src/commands/help.ts") {
		t.Error("help.ts should not be a declaration file")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	got := CollapseWhitespace("  {\n\t  a: string;\n }  ")
	if got != "{ a: string; }" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
