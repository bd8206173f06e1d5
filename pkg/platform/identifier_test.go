package platform

import (
	"testing"

	"github.com/lobbylink/lobbylink/pkg/errors"
)

type accountHandle struct {
	Value uint64
}

type lobbyHandle struct {
	LobbyID string
}

type unrelated struct {
	Color string
}

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    uint64
		wantErr bool
	}{
		{"uint64", uint64(76561198000000001), 76561198000000001, false},
		{"int", int(12345), 12345, false},
		{"int32", int32(77), 77, false},
		{"uint32", uint32(88), 88, false},
		{"negative int", int(-1), 0, true},
		{"negative int64", int64(-5), 0, true},
		{"decimal string", "76561198000000002", 76561198000000002, false},
		{"empty string", "", 0, true},
		{"garbage string", "host-42", 0, true},
		{"wrapped value", accountHandle{Value: 99}, 99, false},
		{"wrapped pointer", &accountHandle{Value: 99}, 99, false},
		{"wrapped string field", lobbyHandle{LobbyID: "424242"}, 424242, false},
		{"unknown field names", unrelated{Color: "red"}, 0, true},
		{"nil", nil, 0, true},
		{"nil pointer", (*accountHandle)(nil), 0, true},
		{"unsupported type", []byte{1, 2}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeIdentifier(tt.raw)
			if tt.wantErr {
				if !errors.IsUnrecognizedIdentifier(err) {
					t.Fatalf("expected unrecognized-identifier error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeIdentifier() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatIdentifierRoundTrip(t *testing.T) {
	id := uint64(76561198000000042)
	got, err := NormalizeIdentifier(FormatIdentifier(id))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got != id {
		t.Errorf("round trip = %d, want %d", got, id)
	}
}
