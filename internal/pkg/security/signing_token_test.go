package security

import "testing"

func TestGenerateSigningToken(t *testing.T) {
	token := GenerateSigningToken()
	if len(token) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(token))
	}
	if token == GenerateSigningToken() {
		t.Fatal("two generated tokens must not collide")
	}
}

func TestVerifySigningToken(t *testing.T) {
	token := GenerateSigningToken()

	tests := []struct {
		name     string
		stored   string
		supplied string
		want     bool
	}{
		{name: "exact match", stored: token, supplied: token, want: true},
		{name: "mismatch", stored: token, supplied: GenerateSigningToken(), want: false},
		{name: "tampered suffix", stored: token, supplied: token[:63] + "x", want: false},
		{name: "empty stored", stored: "", supplied: token, want: false},
		{name: "empty supplied", stored: token, supplied: "", want: false},
		{name: "both empty", stored: "", supplied: "", want: false},
		{name: "prefix only", stored: token, supplied: token[:32], want: false},
	}

	for _, tt := range tests {
		if got := VerifySigningToken(tt.stored, tt.supplied); got != tt.want {
			t.Fatalf("%s: VerifySigningToken = %v, want %v", tt.name, got, tt.want)
		}
	}
}
