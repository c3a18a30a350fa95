package prompt

import "testing"

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"getFile", "_private", "put_file2", "A"}
	for _, s := range valid {
		if !isValidIdentifier(s) {
			t.Errorf("isValidIdentifier(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "2getFile", "get-file", "get file", "get.file"}
	for _, s := range invalid {
		if isValidIdentifier(s) {
			t.Errorf("isValidIdentifier(%q) = true, want false", s)
		}
	}
}
