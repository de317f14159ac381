package support_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/app/handlers/availability"
	"pethost/internal/app/handlers/hosts"
	"pethost/internal/app/handlers/support"
)

func TestLockKeys_CreateHostLocksUser(t *testing.T) {
	resolve := support.LockKeys(nil)

	keys, err := resolve(context.Background(), hosts.CreateHostCommand{ActorID: " u-1 "})
	require.NoError(t, err)
	assert.Equal(t, []string{"user:u-1"}, keys)
}

func TestLockKeys_HostScopedCommands(t *testing.T) {
	resolve := support.LockKeys(nil)

	keys, err := resolve(context.Background(), availability.CreateBlockCommand{ActorID: "u-1", HostID: "h-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"host:h-1"}, keys)

	keys, err = resolve(context.Background(), hosts.CreateHostCommand{})
	require.NoError(t, err)
	assert.Empty(t, keys)
}
