package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduce_Transitions(t *testing.T) {
	c := Loading[int]()
	assert.Equal(t, StatusLoading, c.Status)

	c = Reduce(c, FetchSucceeded([]int{1, 2}))
	assert.Equal(t, StatusPopulated, c.Status)
	assert.Equal(t, []int{1, 2}, c.Items)

	c = Reduce(c, FetchStarted[int]())
	assert.Equal(t, StatusLoading, c.Status)
	assert.Equal(t, []int{1, 2}, c.Items, "refetch keeps the previous items visible")

	c = Reduce(c, FetchSucceeded([]int{}))
	assert.Equal(t, StatusEmpty, c.Status)
	assert.Empty(t, c.Items)

	boom := errors.New("boom")
	c = Reduce(c, FetchFailed[int](boom))
	assert.Equal(t, StatusError, c.Status)
	assert.Equal(t, boom, c.Err)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)

	c = Reduce(c, FetchResult([]int{3}, nil))
	assert.Equal(t, StatusPopulated, c.Status)
	assert.NoError(t, c.Err)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "empty", StatusEmpty.String())
	assert.Equal(t, "populated", StatusPopulated.String())
}
