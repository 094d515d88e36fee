package docreader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathRelative(t *testing.T) {
	g := NewPathGuard()

	cases := []struct {
		in   string
		want string
	}{
		{"document.pdf", "document.pdf"},
		{"./document.pdf", "document.pdf"},
		{"data/files/document.pdf", filepath.Join("data", "files", "document.pdf")},
		{"folder/./document.pdf", filepath.Join("folder", "document.pdf")},
	}

	for _, tc := range cases {
		got, err := g.ValidatePath(tc.in)
		if err != nil {
			t.Errorf("ValidatePath(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ValidatePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidatePathTraversal(t *testing.T) {
	g := NewPathGuard()

	denied := []string{
		"../secret.txt",
		"../../../etc/passwd",
		"folder/../../../etc/passwd",
		"..",
	}

	for _, p := range denied {
		if _, err := g.ValidatePath(p); err == nil {
			t.Errorf("ValidatePath(%q) allowed a traversal path", p)
		} else {
			var pd *PathDeniedError
			if !errors.As(err, &pd) {
				t.Errorf("ValidatePath(%q) error type = %T, want *PathDeniedError", p, err)
			}
		}
	}
}

func TestValidatePathAbsolute(t *testing.T) {
	g := NewPathGuard()

	inTemp := filepath.Join(os.TempDir(), "docreader-guard-test.txt")
	if err := os.WriteFile(inTemp, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(inTemp)

	if _, err := g.ValidatePath(inTemp); err != nil {
		t.Errorf("ValidatePath(%q) rejected a path under the temp dir: %v", inTemp, err)
	}

	if _, err := g.ValidatePath("/etc/passwd"); err == nil {
		t.Error("ValidatePath(/etc/passwd) allowed a path outside the allow-list")
	}
}

func TestValidatePathCustomRoots(t *testing.T) {
	root := t.TempDir()
	g := NewPathGuardWithRoots(root)

	ok := filepath.Join(root, "doc.txt")
	if err := os.WriteFile(ok, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := g.ValidatePath(ok); err != nil {
		t.Errorf("ValidatePath(%q) = %v, want allowed under custom root", ok, err)
	}

	other := t.TempDir()
	outside := filepath.Join(other, "doc.txt")
	if _, err := g.ValidatePath(outside); err == nil {
		t.Errorf("ValidatePath(%q) allowed a path outside the custom root", outside)
	}
}

func TestValidatePathRejectsDirectories(t *testing.T) {
	root := t.TempDir()
	g := NewPathGuardWithRoots(root)

	sub := filepath.Join(root, "subdir")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := g.ValidatePath(sub)
	if err == nil {
		t.Fatal("ValidatePath allowed a directory")
	}
	var pd *PathDeniedError
	if !errors.As(err, &pd) {
		t.Fatalf("error type = %T, want *PathDeniedError", err)
	}
}

func TestValidatePathMissingFileAllowed(t *testing.T) {
	// A path that does not exist yet passes the guard; the conversion
	// layer reports the missing file.
	root := t.TempDir()
	g := NewPathGuardWithRoots(root)

	p := filepath.Join(root, "not-yet-created.pdf")
	got, err := g.ValidatePath(p)
	if err != nil {
		t.Fatalf("ValidatePath(%q) = %v, want allowed", p, err)
	}
	if got != p {
		t.Errorf("ValidatePath(%q) = %q, want unchanged", p, got)
	}
}
