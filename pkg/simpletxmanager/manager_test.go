package simpletxmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	pqSerialization := &pq.Error{Code: pq.ErrorCode(serializationFailureCode)}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "bare driver error",
			err:  pqSerialization,
			want: true,
		},
		{
			name: "commit path wrap",
			err:  fmt.Errorf("%w: commit: %w", ErrTransaction, pqSerialization),
			want: true,
		},
		{
			name: "repository wrap",
			err: fmt.Errorf("%w: Create - execute insert: %w",
				errors.New("storage: failed to execute query"), pqSerialization),
			want: true,
		},
		{
			name: "other pq error code",
			err:  fmt.Errorf("%w: commit: %w", ErrTransaction, &pq.Error{Code: "23505"}),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSerializationFailure(tt.err))
		})
	}
}
