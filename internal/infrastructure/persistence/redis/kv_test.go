package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLResult(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Duration
		want     time.Duration
		wantFind bool
	}{
		{"有过期时间", 90 * time.Second, 90 * time.Second, true},
		{"存在但无过期时间", time.Duration(-1), 0, true},
		{"键不存在", time.Duration(-2), 0, false},
		{"刚好为零", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ttlResult(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFind, found)
		})
	}
}
