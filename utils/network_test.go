package utils

import "testing"

func TestPushURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		expected string
		wantErr  bool
	}{
		{"http", "http://localhost:5000", "ws://localhost:5000/socket.io/?EIO=4&transport=websocket", false},
		{"https", "https://pdf.example.com", "wss://pdf.example.com/socket.io/?EIO=4&transport=websocket", false},
		{"trailing slash", "http://localhost:5000/", "ws://localhost:5000/socket.io/?EIO=4&transport=websocket", false},
		{"sub path", "https://example.com/toolkit", "wss://example.com/toolkit/socket.io/?EIO=4&transport=websocket", false},
		{"already ws", "ws://localhost:5000", "ws://localhost:5000/socket.io/?EIO=4&transport=websocket", false},
		{"bad scheme", "ftp://example.com", "", true},
		{"no host", "http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PushURL(tt.base)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PushURL(%q) error = %v, wantErr %v", tt.base, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("PushURL(%q) = %q, expected %q", tt.base, got, tt.expected)
			}
		})
	}
}

func TestIsLocalServer(t *testing.T) {
	tests := []struct {
		base     string
		expected bool
	}{
		{"http://localhost:5000", true},
		{"http://127.0.0.1:8080", true},
		{"http://[::1]:5000", true},
		{"https://pdf.example.com", false},
		{"%%%", false},
	}
	for _, tt := range tests {
		if got := IsLocalServer(tt.base); got != tt.expected {
			t.Errorf("IsLocalServer(%q) = %v, expected %v", tt.base, got, tt.expected)
		}
	}
}
