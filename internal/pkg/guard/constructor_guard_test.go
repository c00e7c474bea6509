package guard_test

import (
	"errors"
	"testing"

	"phantomtrack/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCommandNotConstructed = errors.New("command must be created via its constructor")

// labelRequest stands in for the guarded command structs that embed a guard
// so their handlers can refuse zero values.
type labelRequest struct {
	orderID string
	guard   guard.ConstructorGuard
}

func newLabelRequest(orderID string) labelRequest {
	return labelRequest{orderID: orderID, guard: guard.NewConstructorGuard()}
}

func (r labelRequest) Validate() error {
	return r.guard.Validate(errCommandNotConstructed)
}

func TestConstructorGuard(t *testing.T) {
	tests := []struct {
		name    string
		guard   guard.ConstructorGuard
		err     error
		wantErr error
	}{
		{
			name:  "constructed guard passes",
			guard: guard.NewConstructorGuard(),
			err:   errCommandNotConstructed,
		},
		{
			name:  "constructed guard passes with nil error",
			guard: guard.NewConstructorGuard(),
		},
		{
			name:    "zero value returns the supplied error",
			guard:   guard.ConstructorGuard{},
			err:     errCommandNotConstructed,
			wantErr: errCommandNotConstructed,
		},
		{
			name:    "zero value falls back to the default error",
			guard:   guard.ConstructorGuard{},
			wantErr: guard.ErrDefaultConstructorGuard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard.Validate(tt.err)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	t.Run("constructed command validates", func(t *testing.T) {
		cmd := newLabelRequest("3f1c")
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "3f1c", cmd.orderID)
	})

	t.Run("zero value command is rejected", func(t *testing.T) {
		var cmd labelRequest
		assert.Equal(t, errCommandNotConstructed, cmd.Validate())
	})

	t.Run("guard survives copies", func(t *testing.T) {
		cmd := newLabelRequest("3f1c")
		copied := cmd
		require.NoError(t, copied.Validate())
	})
}
