package topic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicPublishSubscribe(t *testing.T) {
	d := NewDomain("test")
	tp, err := New[string](d, "greeting")
	require.NoError(t, err)

	var got []string
	tp.RegisterCallback(func(inISR bool, v string) {
		assert.False(t, inISR)
		got = append(got, v)
	})
	tp.Publish("hello")
	tp.Publish("world")

	assert.Equal(t, []string{"hello", "world"}, got)
	last, ok := tp.Last()
	assert.True(t, ok)
	assert.Equal(t, "world", last)
	assert.Equal(t, uint64(2), tp.Published())
}

func TestTopicPublishFromISR(t *testing.T) {
	tp, err := New[int](NewDomain("test"), "n")
	require.NoError(t, err)
	var flag bool
	tp.RegisterCallback(func(inISR bool, _ int) { flag = inISR })
	tp.PublishFromISR(1)
	assert.True(t, flag)
}

func TestTopicDuplicateName(t *testing.T) {
	d := NewDomain("test")
	_, err := New[int](d, "a")
	require.NoError(t, err)
	_, err = New[string](d, "a")
	assert.True(t, errors.Is(err, ErrDuplicateName))
	assert.True(t, d.Has("a"))

	_, err = New[int](d, "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestTopicRegisterFromCallback(t *testing.T) {
	tp, err := New[int](NewDomain("test"), "n")
	require.NoError(t, err)
	calls := 0
	tp.RegisterCallback(func(bool, int) {
		calls++
		if calls == 1 {
			tp.RegisterCallback(func(bool, int) { calls += 10 })
		}
	})
	tp.Publish(1)
	assert.Equal(t, 1, calls)
	tp.Publish(2)
	assert.Equal(t, 12, calls)
}

func TestTopicLastEmpty(t *testing.T) {
	tp, err := New[float64](NewDomain("test"), "f")
	require.NoError(t, err)
	_, ok := tp.Last()
	assert.False(t, ok)
}
