package intake

import "testing"

func TestLoadURLs_FiltersEmptyAndInvalidScheme(t *testing.T) {
	accepted, ok := LoadURLs([]string{
		"https://api.example.org/a",
		"",
		"not-a-url",
		"http://api.example.org/b",
		"ftp://mirror.example.org/c",
		"javascript:alert(1)",
	})

	if !ok {
		t.Fatal("expected ok=true")
	}
	want := []string{
		"https://api.example.org/a",
		"http://api.example.org/b",
		"ftp://mirror.example.org/c",
	}
	if len(accepted) != len(want) {
		t.Fatalf("accepted = %v, want %v", accepted, want)
	}
	for i, u := range want {
		if accepted[i] != u {
			t.Fatalf("accepted[%d] = %q, want %q", i, accepted[i], u)
		}
	}
}

func TestLoadURLs_AllRejected(t *testing.T) {
	accepted, ok := LoadURLs([]string{"", "bogus", "mailto:x@example.org"})
	if ok {
		t.Fatal("expected ok=false")
	}
	if len(accepted) != 0 {
		t.Fatalf("expected no accepted urls, got %v", accepted)
	}
}

func TestLoadURLs_EmptyInput(t *testing.T) {
	accepted, ok := LoadURLs(nil)
	if ok || len(accepted) != 0 {
		t.Fatalf("accepted=%v ok=%v, want empty/false", accepted, ok)
	}
}
