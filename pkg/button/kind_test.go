package button

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Set(t *testing.T) {
	var actual Kind

	require.NoError(t, actual.Set(" GPIO "))
	assert.Equal(t, KindGpio, actual)
	require.NoError(t, actual.Set("console"))
	assert.Equal(t, KindConsole, actual)
	assert.EqualError(t, actual.Set("usb"), "illegal-button-kind: usb")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "gpio", KindGpio.String())
	assert.Equal(t, "console", KindConsole.String())
	assert.Equal(t, "illegal-button-kind-0", Kind(0).String())
	assert.Equal(t, "gpio,console", AllKinds.String())
}

func TestPull_Set(t *testing.T) {
	var actual Pull

	require.NoError(t, actual.Set("down"))
	assert.Equal(t, PullDown, actual)
	require.NoError(t, actual.UnmarshalText([]byte("up")))
	assert.Equal(t, PullUp, actual)
	assert.EqualError(t, actual.Set("sideways"), "illegal-button-pull: sideways")
}

func TestConfiguration_PinName(t *testing.T) {
	assert.Equal(t, "GPIO17", NewConfiguration().PinName())
}

func TestPin_Set(t *testing.T) {
	var actual Pin
	assert.False(t, actual.IsSet())

	require.NoError(t, actual.Set("0"))
	assert.True(t, actual.IsSet())
	assert.Equal(t, uint16(0), actual.Number())
	assert.Equal(t, "GPIO0", actual.Name())

	require.NoError(t, actual.Set("GPIO22"))
	assert.Equal(t, uint16(22), actual.Number())
	assert.Equal(t, "22", actual.String())

	assert.EqualError(t, actual.Set("-1"), "illegal-button-pin: -1")
	assert.EqualError(t, actual.Set("pin"), "illegal-button-pin: pin")
}
