package watermark

import "testing"

func TestIssueUnique(t *testing.T) {
	t.Parallel()
	s := NewService()
	seen := map[string]bool{}
	for i := 0; i < 128; i++ {
		wm, err := s.Issue()
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if wm == "" {
			t.Fatal("empty watermark")
		}
		if seen[wm] {
			t.Fatalf("duplicate watermark %q", wm)
		}
		seen[wm] = true
	}
}
