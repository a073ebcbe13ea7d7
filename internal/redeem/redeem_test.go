package redeem

import (
	"strings"
	"testing"
)

func TestBuildRedemptionURLDeterministic(t *testing.T) {
	t.Parallel()
	a := BuildRedemptionURL("https://zupass.org", "https://promises.example", "eyJ.abc.def", FolderMade, true)
	b := BuildRedemptionURL("https://zupass.org", "https://promises.example", "eyJ.abc.def", FolderMade, true)
	if a != b {
		t.Fatalf("same inputs produced different URLs:\n%s\n%s", a, b)
	}
	if !strings.HasPrefix(a, "https://zupass.org/#/add?request=") {
		t.Fatalf("unexpected URL shape: %s", a)
	}
}

func TestBuildRedemptionURLTrimsTrailingSlash(t *testing.T) {
	t.Parallel()
	a := BuildRedemptionURL("https://zupass.org/", "r", "s", FolderReceived, true)
	b := BuildRedemptionURL("https://zupass.org", "r", "s", FolderReceived, true)
	if a != b {
		t.Fatalf("trailing slash changed output:\n%s\n%s", a, b)
	}
}

func TestRedemptionURLRoundTrip(t *testing.T) {
	t.Parallel()
	const serialized = "eyJhbGciOiJFZERTQSJ9.payload.sig"
	u := BuildRedemptionURL("https://zupass.org", "https://promises.example", serialized, FolderReceived, true)

	gotSer, gotLabel, err := ParseRedemptionURL(u)
	if err != nil {
		t.Fatalf("ParseRedemptionURL: %v", err)
	}
	if gotSer != serialized {
		t.Fatalf("serialized credential mangled: %q", gotSer)
	}
	if gotLabel != FolderReceived {
		t.Fatalf("label mangled: %q", gotLabel)
	}
}

func TestParseRedemptionURLRejectsGarbage(t *testing.T) {
	t.Parallel()
	if _, _, err := ParseRedemptionURL("https://example.com/nope"); err == nil {
		t.Fatal("want error for non-redemption URL")
	}
}

func TestDistinctInputsDistinctURLs(t *testing.T) {
	t.Parallel()
	a := BuildRedemptionURL("https://zupass.org", "r", "cred-a", FolderMade, true)
	b := BuildRedemptionURL("https://zupass.org", "r", "cred-b", FolderMade, true)
	if a == b {
		t.Fatal("different credentials produced identical URLs")
	}
	c := BuildRedemptionURL("https://zupass.org", "r", "cred-a", FolderMade, false)
	if a == c {
		t.Fatal("append mode not reflected in URL")
	}
}
