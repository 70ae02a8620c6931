package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InioX/matugen-sub000/pkg"
)

func TestVersion(t *testing.T) {
	env, stdout, _ := testEnv(t, nil, nil)

	require.NoError(t, Version{}.Run(WithEnv(context.Background(), env)))
	assert.Equal(t, pkg.Version+"\n", stdout.String())
}
