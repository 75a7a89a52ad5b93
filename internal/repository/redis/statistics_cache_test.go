package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewKey(t *testing.T) {
	assert.Equal(t, "stats:top_clients_by_value", viewKey("top_clients_by_value"))
	assert.Len(t, Views, 4)

	seen := make(map[string]struct{})
	for _, v := range Views {
		seen[viewKey(v)] = struct{}{}
	}
	assert.Len(t, seen, len(Views), "view keys must be unique")
	assert.NotContains(t, seen, generationKey)
}

func TestRedisValueToBytes(t *testing.T) {
	tests := []struct {
		name    string
		val     any
		want    []byte
		wantErr bool
	}{
		{name: "string", val: `{"a":1}`, want: []byte(`{"a":1}`)},
		{name: "bytes", val: []byte("x"), want: []byte("x")},
		{name: "nil is a miss", val: nil, want: nil},
		{name: "unexpected type", val: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := redisValueToBytes(tt.val, "stats:k")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
