package postgres

import (
	"context"
	"testing"
)

func TestConnect_RequiresDSN(t *testing.T) {
	if _, err := Connect(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}
